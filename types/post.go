package types

import (
	"time"

	"github.com/restfb/restfb-sub000/mapper"
)

type Post struct {
	FacebookType
	Message      string                   `facebook:"message"`
	Story        string                   `facebook:"story"`
	Caption      string                   `facebook:"caption"`
	Link         string                   `facebook:"link"`
	PermalinkURL string                   `facebook:"permalink_url"`
	FullPicture  string                   `facebook:"full_picture"`
	StatusType   string                   `facebook:"status_type"`
	IsPublished  bool                     `facebook:"is_published"`
	IsHidden     bool                     `facebook:"is_hidden"`
	CreatedTime  time.Time                `facebook:"created_time"`
	UpdatedTime  time.Time                `facebook:"updated_time"`
	From         *CategorizedFacebookType `facebook:"from"`
	To           []NamedFacebookType      `facebook:"to"`
	MessageTags  []MessageTag             `facebook:"message_tags"`
	Attachments  []StoryAttachment        `facebook:"attachments"`
	Place        *Place                   `facebook:"place"`
	Privacy      *Privacy                 `facebook:"privacy"`
	Likes        *Likes                   `facebook:"likes"`
	Comments     *Comments                `facebook:"comments"`
	Reactions    *Reactions               `facebook:"reactions"`
	Shares       *Shares                  `facebook:"shares"`

	// Counts derived from the connection summaries.
	LikesCount     int64
	CommentsCount  int64
	ReactionsCount int64
	SharesCount    int64
}

func (p *Post) MappingCompleted(*mapper.Mapper) error {
	p.LikesCount = p.Likes.total()
	p.CommentsCount = p.Comments.total()
	p.ReactionsCount = p.Reactions.total()
	if p.Shares != nil {
		p.SharesCount = p.Shares.Count
	}
	return nil
}

type MessageTag struct {
	NamedFacebookType
	Offset int `facebook:"offset"`
	Length int `facebook:"length"`
}

// StoryAttachment is an entry of a post's attachments connection.
type StoryAttachment struct {
	Title          string            `facebook:"title"`
	Description    string            `facebook:"description"`
	Type           string            `facebook:"type"`
	URL            string            `facebook:"url"`
	UnshimmedURL   string            `facebook:"unshimmed_url"`
	Target         *AttachmentTarget `facebook:"target"`
	Media          *AttachmentMedia  `facebook:"media"`
	Subattachments []StoryAttachment `facebook:"subattachments"`
}

type AttachmentTarget struct {
	ID  string `facebook:"id"`
	URL string `facebook:"url"`
}

type AttachmentMedia struct {
	Image  *Image `facebook:"image"`
	Source string `facebook:"source"`
}

type Comment struct {
	FacebookType
	Message      string             `facebook:"message"`
	From         *NamedFacebookType `facebook:"from"`
	CreatedTime  time.Time          `facebook:"created_time"`
	LikeCount    int64              `facebook:"like_count"`
	CommentCount int64              `facebook:"comment_count"`
	UserLikes    bool               `facebook:"user_likes"`
	CanComment   bool               `facebook:"can_comment"`
	CanRemove    bool               `facebook:"can_remove"`
	IsHidden     bool               `facebook:"is_hidden"`
	PermalinkURL string             `facebook:"permalink_url"`
	Attachment   *StoryAttachment   `facebook:"attachment"`
	Parent       *Comment           `facebook:"parent"`
	Comments     *Comments          `facebook:"comments"`
	MessageTags  []MessageTag       `facebook:"message_tags"`
}

// Comments is a comment connection embedded in another object.
type Comments struct {
	Data    []Comment `facebook:"data"`
	Paging  *Paging   `facebook:"paging"`
	Summary *Summary  `facebook:"summary"`
	// Count is the legacy total some endpoints still send.
	Count int64 `facebook:"count"`

	TotalCount int64
	Order      string
}

func (c *Comments) MappingCompleted(*mapper.Mapper) error {
	c.TotalCount = summaryTotal(c.Summary, c.Count)
	if c.Summary != nil {
		c.Order = c.Summary.Order
	}
	return nil
}

func (c *Comments) total() int64 {
	if c == nil {
		return 0
	}
	return c.TotalCount
}

type Likes struct {
	Data    []NamedFacebookType `facebook:"data"`
	Paging  *Paging             `facebook:"paging"`
	Summary *Summary            `facebook:"summary"`
	Count   int64               `facebook:"count"`

	TotalCount int64
}

func (l *Likes) MappingCompleted(*mapper.Mapper) error {
	l.TotalCount = summaryTotal(l.Summary, l.Count)
	return nil
}

func (l *Likes) total() int64 {
	if l == nil {
		return 0
	}
	return l.TotalCount
}

type Reactions struct {
	Data    []ReactionItem `facebook:"data"`
	Paging  *Paging        `facebook:"paging"`
	Summary *Summary       `facebook:"summary"`

	TotalCount int64
}

type ReactionItem struct {
	ID   string `facebook:"id"`
	Name string `facebook:"name"`
	Type string `facebook:"type"`
}

func (r *Reactions) MappingCompleted(*mapper.Mapper) error {
	r.TotalCount = summaryTotal(r.Summary, int64(len(r.Data)))
	return nil
}

func (r *Reactions) total() int64 {
	if r == nil {
		return 0
	}
	return r.TotalCount
}

type Shares struct {
	Count int64 `facebook:"count"`
}

func summaryTotal(s *Summary, fallback int64) int64 {
	if s != nil {
		return s.TotalCount
	}
	return fallback
}

type Privacy struct {
	Value       string `facebook:"value"`
	Description string `facebook:"description"`
	Friends     string `facebook:"friends"`
	Allow       string `facebook:"allow"`
	Deny        string `facebook:"deny"`
}
