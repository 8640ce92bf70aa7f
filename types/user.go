package types

import (
	"time"

	"github.com/restfb/restfb-sub000/codec"
	"github.com/restfb/restfb-sub000/mapper"
)

type User struct {
	NamedFacebookType
	FirstName   string              `facebook:"first_name"`
	MiddleName  string              `facebook:"middle_name"`
	LastName    string              `facebook:"last_name"`
	ShortName   string              `facebook:"short_name"`
	Email       string              `facebook:"email"`
	Gender      string              `facebook:"gender"`
	Link        string              `facebook:"link"`
	Locale      string              `facebook:"locale"`
	Timezone    float64             `facebook:"timezone"`
	Verified    bool                `facebook:"verified"`
	UpdatedTime time.Time           `facebook:"updated_time"`
	Birthday    string              `facebook:"birthday"`
	AgeRange    *AgeRange           `facebook:"age_range"`
	Hometown    *NamedFacebookType  `facebook:"hometown"`
	Location    *NamedFacebookType  `facebook:"location"`
	Picture     *Picture            `facebook:"picture"`
	Cover       *CoverPhoto         `facebook:"cover"`
	Languages   []NamedFacebookType `facebook:"languages"`

	// BirthdayAsDate is derived from Birthday, which may be MM/DD/YYYY, MM/DD
	// or YYYY depending on the permissions granted.
	BirthdayAsDate time.Time
}

type AgeRange struct {
	Min int `facebook:"min"`
	Max int `facebook:"max"`
}

func (u *User) MappingCompleted(m *mapper.Mapper) error {
	u.BirthdayAsDate = time.Time{}
	if u.Birthday == "" {
		return nil
	}
	t, err := codec.ParseDate(u.Birthday)
	if err != nil {
		m.Logger().Debug("unparseable birthday", "user", u.ID, "birthday", u.Birthday, "error", err)
		return nil
	}
	u.BirthdayAsDate = t
	return nil
}

// Account is a page the user manages, as listed by /me/accounts.
type Account struct {
	NamedFacebookType
	Category     string     `facebook:"category"`
	CategoryList []Category `facebook:"category_list"`
	AccessToken  string     `facebook:"access_token"`
	Tasks        []string   `facebook:"tasks"`
}

type Category struct {
	ID   string `facebook:"id"`
	Name string `facebook:"name"`
}

type Page struct {
	CategorizedFacebookType
	CategoryList      []Category        `facebook:"category_list"`
	About             string            `facebook:"about"`
	Description       string            `facebook:"description"`
	Username          string            `facebook:"username"`
	Link              string            `facebook:"link"`
	Website           string            `facebook:"website"`
	Phone             string            `facebook:"phone"`
	Emails            []string          `facebook:"emails"`
	FanCount          int64             `facebook:"fan_count"`
	FollowersCount    int64             `facebook:"followers_count"`
	TalkingAboutCount int64             `facebook:"talking_about_count"`
	WereHereCount     int64             `facebook:"were_here_count"`
	IsPublished       bool              `facebook:"is_published"`
	IsVerified        bool              `facebook:"is_verified"`
	Location          *Location         `facebook:"location"`
	Picture           *Picture          `facebook:"picture"`
	Cover             *CoverPhoto       `facebook:"cover"`
	AccessToken       string            `facebook:"access_token"`
	Hours             map[string]string `facebook:"hours"`
}
