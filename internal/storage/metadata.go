package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// MetadataDB handles SQLite database operations for generated videos
type MetadataDB struct {
	db *sql.DB
}

// NewMetadataDB creates a new metadata database
func NewMetadataDB(dbPath string) (*MetadataDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		request_name TEXT NOT NULL,
		source_type TEXT NOT NULL,
		post_id TEXT,
		subreddit TEXT,
		title TEXT,
		gdrive_url TEXT,
		local_paths TEXT NOT NULL,
		part_count INTEGER NOT NULL,
		duration REAL,
		width INTEGER,
		height INTEGER,
		word_count INTEGER,
		subtitle_count INTEGER,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_videos_created_at ON videos(created_at);
	CREATE INDEX IF NOT EXISTS idx_videos_subreddit ON videos(subreddit);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	return &MetadataDB{db: db}, nil
}

// SaveVideo saves a completed generation run to the database
func (mdb *MetadataDB) SaveVideo(requestName, sourceType string, result *types.VideoResult) error {
	query := `
	INSERT INTO videos (job_id, request_name, source_type, post_id, subreddit, title,
		gdrive_url, local_paths, part_count, duration, width, height,
		word_count, subtitle_count, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var postID, subreddit, title string
	if result.Post != nil {
		postID = result.Post.ID
		subreddit = result.Post.Subreddit
		title = result.Post.Title
	}

	_, err := mdb.db.Exec(query,
		result.JobID, requestName, sourceType, postID, subreddit, title,
		result.GDriveURL, strings.Join(result.OutputPaths, "\n"), result.PartCount,
		result.Duration, result.Width, result.Height,
		result.WordCount, result.SubtitleCount, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save video metadata: %v", err)
	}

	return nil
}

// GetVideo retrieves video metadata by job ID
func (mdb *MetadataDB) GetVideo(jobID string) (map[string]interface{}, error) {
	query := `
	SELECT job_id, request_name, source_type, post_id, subreddit, title,
		gdrive_url, local_paths, part_count, duration, width, height,
		word_count, subtitle_count, created_at
	FROM videos WHERE job_id = ?
	`

	row := mdb.db.QueryRow(query, jobID)

	video, err := scanVideo(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %v", err)
	}
	return video, nil
}

// ListVideos returns the most recent videos
func (mdb *MetadataDB) ListVideos(limit int) ([]map[string]interface{}, error) {
	query := `
	SELECT job_id, request_name, source_type, post_id, subreddit, title,
		gdrive_url, local_paths, part_count, duration, width, height,
		word_count, subtitle_count, created_at
	FROM videos ORDER BY created_at DESC LIMIT ?
	`

	rows, err := mdb.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %v", err)
	}
	defer rows.Close()

	var videos []map[string]interface{}
	for rows.Next() {
		video, err := scanVideo(rows.Scan)
		if err != nil {
			continue
		}
		videos = append(videos, video)
	}

	return videos, nil
}

func scanVideo(scan func(dest ...interface{}) error) (map[string]interface{}, error) {
	var (
		jobID, name, source, postID, subreddit, title string
		gdrive, localPaths                            string
		partCount, width, height                      int
		duration                                      float64
		wordCount, subtitleCount                      int
		createdAt                                     time.Time
	)

	err := scan(&jobID, &name, &source, &postID, &subreddit, &title,
		&gdrive, &localPaths, &partCount, &duration, &width, &height,
		&wordCount, &subtitleCount, &createdAt)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"job_id":         jobID,
		"request_name":   name,
		"source_type":    source,
		"post_id":        postID,
		"subreddit":      subreddit,
		"title":          title,
		"gdrive_url":     gdrive,
		"local_paths":    strings.Split(localPaths, "\n"),
		"part_count":     partCount,
		"duration":       duration,
		"width":          width,
		"height":         height,
		"word_count":     wordCount,
		"subtitle_count": subtitleCount,
		"created_at":     createdAt,
	}, nil
}

// Close closes the database connection
func (mdb *MetadataDB) Close() error {
	return mdb.db.Close()
}
