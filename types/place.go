package types

import (
	"strings"
	"time"

	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
)

type Location struct {
	Street    string  `facebook:"street"`
	City      string  `facebook:"city"`
	State     string  `facebook:"state"`
	Region    string  `facebook:"region"`
	Country   string  `facebook:"country"`
	Zip       string  `facebook:"zip"`
	Latitude  float64 `facebook:"latitude"`
	Longitude float64 `facebook:"longitude"`
}

// Place is a tagged location. Its "location" member is an object for most
// places and a free-text string for some user-created ones.
type Place struct {
	NamedFacebookType
	Location         *Location `facebook:"location"`
	LocationAsString string    `facebook:"location"`
}

func (p *Place) MappingCompleted(*mapper.Mapper) error {
	if p.Location != nil && strings.HasPrefix(p.LocationAsString, "{") {
		p.LocationAsString = ""
	}
	return nil
}

type Event struct {
	NamedFacebookType
	Description     string             `facebook:"description"`
	StartTime       time.Time          `facebook:"start_time"`
	EndTime         time.Time          `facebook:"end_time"`
	Timezone        string             `facebook:"timezone"`
	IsOnline        bool               `facebook:"is_online"`
	IsCanceled      bool               `facebook:"is_canceled"`
	AttendingCount  int64              `facebook:"attending_count"`
	InterestedCount int64              `facebook:"interested_count"`
	MaybeCount      int64              `facebook:"maybe_count"`
	DeclinedCount   int64              `facebook:"declined_count"`
	TicketURI       string             `facebook:"ticket_uri"`
	Place           *Place             `facebook:"place"`
	Owner           *NamedFacebookType `facebook:"owner"`
	Cover           *CoverPhoto        `facebook:"cover"`
}

type Group struct {
	NamedFacebookType
	Description string             `facebook:"description"`
	Email       string             `facebook:"email"`
	Icon        string             `facebook:"icon"`
	Privacy     string             `facebook:"privacy"`
	MemberCount int64              `facebook:"member_count"`
	UpdatedTime time.Time          `facebook:"updated_time"`
	Owner       *NamedFacebookType `facebook:"owner"`
	Cover       *CoverPhoto        `facebook:"cover"`
}

type Application struct {
	NamedFacebookType
	Description        string `facebook:"description"`
	Category           string `facebook:"category"`
	Subcategory        string `facebook:"subcategory"`
	Link               string `facebook:"link"`
	Namespace          string `facebook:"namespace"`
	IconURL            string `facebook:"icon_url"`
	LogoURL            string `facebook:"logo_url"`
	DailyActiveUsers   int64  `facebook:"daily_active_users"`
	WeeklyActiveUsers  int64  `facebook:"weekly_active_users"`
	MonthlyActiveUsers int64  `facebook:"monthly_active_users"`
}

type Message struct {
	FacebookType
	Message     string               `facebook:"message"`
	Subject     string               `facebook:"subject"`
	CreatedTime time.Time            `facebook:"created_time"`
	From        *MessageParticipant  `facebook:"from"`
	To          []MessageParticipant `facebook:"to"`
	Attachments []MessageAttachment  `facebook:"attachments"`
	Tags        []NamedFacebookType  `facebook:"tags"`
}

type MessageParticipant struct {
	NamedFacebookType
	Email string `facebook:"email"`
}

type MessageAttachment struct {
	ID        string     `facebook:"id"`
	MimeType  string     `facebook:"mime_type"`
	Name      string     `facebook:"name"`
	Size      int64      `facebook:"size"`
	FileURL   string     `facebook:"file_url"`
	ImageData *ImageData `facebook:"image_data"`
}

type ImageData struct {
	Width      int    `facebook:"width"`
	Height     int    `facebook:"height"`
	URL        string `facebook:"url"`
	PreviewURL string `facebook:"preview_url"`
}

type Conversation struct {
	FacebookType
	Link         string               `facebook:"link"`
	Snippet      string               `facebook:"snippet"`
	UpdatedTime  time.Time            `facebook:"updated_time"`
	MessageCount int64                `facebook:"message_count"`
	UnreadCount  int64                `facebook:"unread_count"`
	CanReply     bool                 `facebook:"can_reply"`
	Participants []MessageParticipant `facebook:"participants"`
	Senders      []MessageParticipant `facebook:"senders"`
	Messages     []Message            `facebook:"messages"`
}

// Insight is one metric of the insights edge. Values differ per metric
// (numbers, objects keyed by dimension), so they are kept as raw JSON.
type Insight struct {
	ID          string         `facebook:"id"`
	Name        string         `facebook:"name"`
	Period      string         `facebook:"period"`
	Title       string         `facebook:"title"`
	Description string         `facebook:"description"`
	Values      []InsightValue `facebook:"values"`
}

type InsightValue struct {
	Value   jsonvalue.Value `facebook:"value"`
	EndTime time.Time       `facebook:"end_time"`
}
