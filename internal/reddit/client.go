package reddit

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/codebuildervaibhav/shortform-video/internal/types"
)

// Config controls post selection and filtering
type Config struct {
	UserAgent      string
	Subreddits     []string
	TimeFilter     string // day, week, month, year, all
	FetchLimit     int
	TopSampleSize  int
	MinPostLength  int
	MinUpvotes     int
	WordsPerMinute int
	MinDuration    float64
	MaxDuration    float64
	AllowNSFW      bool
}

// Client fetches narration-ready text posts from Reddit's public JSON API
type Client struct {
	cfg  Config
	http *http.Client
	rnd  *rand.Rand
}

// NewClient creates a Reddit client
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// listing matches Reddit's JSON listing envelope
type listing struct {
	Data struct {
		Children []struct {
			Data postData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	Over18      bool    `json:"over_18"`
}

// FetchTopPost fetches a suitable top post. An empty subreddit picks one
// at random from the configured list. Selection is randomized across the
// top-scoring sample so repeated runs do not narrate the same story.
func (c *Client) FetchTopPost(subreddit string) (*types.Post, error) {
	if subreddit == "" {
		if len(c.cfg.Subreddits) == 0 {
			return nil, fmt.Errorf("no subreddits configured")
		}
		subreddit = c.cfg.Subreddits[c.rnd.Intn(len(c.cfg.Subreddits))]
		log.Printf("Randomly selected subreddit: r/%s", subreddit)
	}

	url := fmt.Sprintf("https://www.reddit.com/r/%s/top.json?t=%s&limit=%d",
		subreddit, c.cfg.TimeFilter, c.cfg.FetchLimit)

	var result listing
	if err := c.getJSON(url, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch r/%s: %v", subreddit, err)
	}

	var suitable []postData
	for _, child := range result.Data.Children {
		if c.isSuitable(child.Data) {
			suitable = append(suitable, child.Data)
		}
	}

	if len(suitable) == 0 {
		return nil, fmt.Errorf("no suitable posts found in r/%s", subreddit)
	}

	sort.Slice(suitable, func(i, j int) bool {
		return suitable[i].Score > suitable[j].Score
	})

	sampleSize := c.cfg.TopSampleSize
	if sampleSize > len(suitable) {
		sampleSize = len(suitable)
	}
	selected := suitable[c.rnd.Intn(sampleSize)]

	log.Printf("Selected post with score %d from top %d of %d suitable posts",
		selected.Score, sampleSize, len(suitable))

	return c.toPost(selected), nil
}

var postIDPattern = regexp.MustCompile(`/comments/([a-zA-Z0-9]+)/?`)

// FetchPostByURL fetches one specific post and validates its suitability
func (c *Client) FetchPostByURL(postURL string) (*types.Post, error) {
	m := postIDPattern.FindStringSubmatch(postURL)
	if m == nil {
		return nil, fmt.Errorf("could not extract post ID from URL: %s", postURL)
	}
	postID := m[1]

	url := fmt.Sprintf("https://www.reddit.com/comments/%s.json?limit=1", postID)

	// The comments endpoint returns two listings; the first holds the post
	var listings []listing
	if err := c.getJSON(url, &listings); err != nil {
		return nil, fmt.Errorf("failed to fetch post %s: %v", postID, err)
	}
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return nil, fmt.Errorf("post %s not found", postID)
	}

	post := listings[0].Data.Children[0].Data
	if !c.isSuitable(post) {
		return nil, fmt.Errorf("post %s is not suitable for narration", postID)
	}

	return c.toPost(post), nil
}

func (c *Client) getJSON(url string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// isSuitable filters posts to ones that narrate well within the configured
// duration window
func (c *Client) isSuitable(p postData) bool {
	text := strings.TrimSpace(p.SelfText)
	if len(text) < c.cfg.MinPostLength {
		return false
	}

	estimated := c.EstimateDuration(len(strings.Fields(text)))
	if estimated < c.cfg.MinDuration {
		return false
	}
	if c.cfg.MaxDuration > 0 && estimated > c.cfg.MaxDuration {
		return false
	}

	if p.Score < c.cfg.MinUpvotes {
		return false
	}
	if !c.cfg.AllowNSFW && p.Over18 {
		return false
	}
	if p.Author == "" || p.Author == "[deleted]" {
		return false
	}

	return true
}

// EstimateDuration estimates narration length from a word count
func (c *Client) EstimateDuration(wordCount int) float64 {
	return float64(wordCount) / float64(c.cfg.WordsPerMinute) * 60
}

func (c *Client) toPost(p postData) *types.Post {
	wordCount := len(strings.Fields(p.SelfText))
	return &types.Post{
		ID:                p.ID,
		Title:             p.Title,
		SelfText:          p.SelfText,
		Author:            p.Author,
		Subreddit:         p.Subreddit,
		Score:             p.Score,
		NumComments:       p.NumComments,
		CreatedUTC:        p.CreatedUTC,
		Permalink:         "https://reddit.com" + p.Permalink,
		NSFW:              p.Over18,
		WordCount:         wordCount,
		EstimatedDuration: c.EstimateDuration(wordCount),
	}
}
