package repository

// publishedOnly - pitch chưa publish hoặc đã soft delete coi như không tồn tại,
// áp dụng cho mọi query đọc/ghi startups (alias s)
const publishedOnly = `s.published_at IS NOT NULL AND s.deleted_at IS NULL`

const queryFetchPitch = `
	SELECT
		s.id, s.created_at, s.title, COALESCE(s.description, ''), COALESCE(s.category, ''),
		COALESCE(s.image, ''), s.pitch, s.views,
		a.id, a.name, a.username, a.image, a.email, a.bio
	FROM startups s
	LEFT JOIN authors a ON s.author_id = a.id
	WHERE s.id = $1 AND ` + publishedOnly

const queryFetchPlaylist = `SELECT id, title, slug FROM playlists WHERE slug = $1`

const queryFetchPlaylistItems = `
	SELECT
		s.id, s.created_at, s.title, COALESCE(s.description, ''), COALESCE(s.category, ''),
		COALESCE(s.image, ''), s.views,
		a.id, a.name, a.username, a.image, a.email, a.bio
	FROM playlist_items pi
	JOIN startups s ON s.id = pi.startup_id
	LEFT JOIN authors a ON s.author_id = a.id
	WHERE pi.playlist_id = $1 AND ` + publishedOnly + `
	ORDER BY pi.position ASC`

const queryIncrementViews = `
	UPDATE startups s SET views = s.views + 1
	WHERE s.id = $1 AND ` + publishedOnly + `
	RETURNING s.views`

const queryGetViews = `SELECT s.views FROM startups s WHERE s.id = $1 AND ` + publishedOnly

// Sync không lọc published: count đã buffer vẫn được giữ nếu pitch bị ẩn sau đó
const querySyncViews = `UPDATE startups SET views = GREATEST(views, $2) WHERE id = $1`
