package types

import (
	"time"

	"github.com/restfb/restfb-sub000/mapper"
)

type Photo struct {
	FacebookType
	Name          string             `facebook:"name"`
	Link          string             `facebook:"link"`
	Picture       string             `facebook:"picture"`
	Height        int                `facebook:"height"`
	Width         int                `facebook:"width"`
	Images        []Image            `facebook:"images"`
	From          *NamedFacebookType `facebook:"from"`
	Album         *Album             `facebook:"album"`
	Place         *Place             `facebook:"place"`
	CreatedTime   time.Time          `facebook:"created_time"`
	UpdatedTime   time.Time          `facebook:"updated_time"`
	BackdatedTime time.Time          `facebook:"backdated_time"`
	Likes         *Likes             `facebook:"likes"`
	Comments      *Comments          `facebook:"comments"`
	Reactions     *Reactions         `facebook:"reactions"`
}

// Largest returns the widest image rendition, or nil.
func (p *Photo) Largest() *Image {
	var best *Image
	for i := range p.Images {
		if best == nil || p.Images[i].Width > best.Width {
			best = &p.Images[i]
		}
	}
	return best
}

type Video struct {
	FacebookType
	Title        string             `facebook:"title"`
	Description  string             `facebook:"description"`
	Source       string             `facebook:"source"`
	Picture      string             `facebook:"picture"`
	PermalinkURL string             `facebook:"permalink_url"`
	EmbedHTML    string             `facebook:"embed_html"`
	Length       float64            `facebook:"length"`
	Published    bool               `facebook:"published"`
	CreatedTime  time.Time          `facebook:"created_time"`
	UpdatedTime  time.Time          `facebook:"updated_time"`
	From         *NamedFacebookType `facebook:"from"`
	Format       []VideoFormat      `facebook:"format"`
	Likes        *Likes             `facebook:"likes"`
	Comments     *Comments          `facebook:"comments"`
}

type VideoFormat struct {
	EmbedHTML string `facebook:"embed_html"`
	Filter    string `facebook:"filter"`
	Height    int    `facebook:"height"`
	Width     int    `facebook:"width"`
	Picture   string `facebook:"picture"`
}

// Album is a photo album. The API sends cover_photo either as the photo id or
// as a photo object; CoverPhotoID is filled in both cases.
type Album struct {
	NamedFacebookType
	Description  string             `facebook:"description"`
	Link         string             `facebook:"link"`
	Location     string             `facebook:"location"`
	Privacy      string             `facebook:"privacy"`
	Count        int64              `facebook:"count"`
	CanUpload    bool               `facebook:"can_upload"`
	CreatedTime  time.Time          `facebook:"created_time"`
	UpdatedTime  time.Time          `facebook:"updated_time"`
	From         *NamedFacebookType `facebook:"from"`
	CoverPhoto   *FacebookType      `facebook:"cover_photo"`
	CoverPhotoID string             `facebook:"cover_photo"`
}

func (a *Album) MappingCompleted(*mapper.Mapper) error {
	if a.CoverPhoto != nil {
		a.CoverPhotoID = a.CoverPhoto.ID
	}
	return nil
}
