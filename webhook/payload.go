// Package webhook receives Graph API webhook callbacks: the subscription
// handshake, payload signature checks and decoding of the change feed.
package webhook

import (
	"time"

	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
	"github.com/restfb/restfb-sub000/types"
)

// Payload is the body of a webhook POST.
type Payload struct {
	Object string  `facebook:"object"`
	Entry  []Entry `facebook:"entry"`
}

// Entry groups the changes of one object.
type Entry struct {
	ID        string      `facebook:"id"`
	Time      int64       `facebook:"time"`
	Changes   []Change    `facebook:"changes"`
	Messaging []Messaging `facebook:"messaging"`
}

// When returns Time as a time.Time. Page entries carry seconds while
// messaging entries carry milliseconds.
func (e Entry) When() time.Time { return unixAuto(e.Time) }

// Change is one changed field. Value depends on Field and is kept raw.
type Change struct {
	Field string          `facebook:"field"`
	Value jsonvalue.Value `facebook:"value"`
}

// Decode maps the change value into v, for example a *FeedValue.
func (c Change) Decode(v any) error {
	if c.Value == nil {
		return mapper.UnmarshalValue(jsonvalue.Null{}, v)
	}
	return mapper.UnmarshalValue(c.Value, v)
}

// FeedValue is the value of a "feed" change on a page.
type FeedValue struct {
	Item         string                   `facebook:"item"`
	Verb         string                   `facebook:"verb"`
	PostID       string                   `facebook:"post_id"`
	CommentID    string                   `facebook:"comment_id"`
	ParentID     string                   `facebook:"parent_id"`
	Message      string                   `facebook:"message"`
	ReactionType string                   `facebook:"reaction_type"`
	CreatedTime  int64                    `facebook:"created_time"`
	From         *types.NamedFacebookType `facebook:"from"`
}

// Messaging is one messenger event.
type Messaging struct {
	Sender    Participant       `facebook:"sender"`
	Recipient Participant       `facebook:"recipient"`
	Timestamp int64             `facebook:"timestamp"`
	Message   *MessagingMessage `facebook:"message"`
	Postback  *Postback         `facebook:"postback"`
	Delivery  *Delivery         `facebook:"delivery"`
	Read      *Read             `facebook:"read"`
}

func (m Messaging) When() time.Time { return unixAuto(m.Timestamp) }

type Participant struct {
	ID string `facebook:"id"`
}

type MessagingMessage struct {
	Mid         string                `facebook:"mid"`
	Text        string                `facebook:"text"`
	IsEcho      bool                  `facebook:"is_echo"`
	QuickReply  *QuickReply           `facebook:"quick_reply"`
	Attachments []MessagingAttachment `facebook:"attachments"`
}

type QuickReply struct {
	Payload string `facebook:"payload"`
}

type MessagingAttachment struct {
	Type    string          `facebook:"type"`
	Payload jsonvalue.Value `facebook:"payload"`
}

type Postback struct {
	Title   string `facebook:"title"`
	Payload string `facebook:"payload"`
}

type Delivery struct {
	Mids      []string `facebook:"mids"`
	Watermark int64    `facebook:"watermark"`
}

type Read struct {
	Watermark int64 `facebook:"watermark"`
}

// unixAuto reads n as milliseconds when it is too large to be seconds.
func unixAuto(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}
