package types

import (
	"fmt"

	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
)

// Picture is a profile picture. The API returns it as a bare URL string, as
// an object, or wrapped as {"data": {...}}; all three map to the same value.
type Picture struct {
	URL          string `facebook:"url"`
	Width        int    `facebook:"width"`
	Height       int    `facebook:"height"`
	IsSilhouette bool   `facebook:"is_silhouette"`
}

type pictureFields Picture

func (p *Picture) UnmarshalGraphValue(m *mapper.Mapper, v jsonvalue.Value) error {
	switch v := v.(type) {
	case jsonvalue.String:
		*p = Picture{URL: string(v)}
		return nil
	case *jsonvalue.Object:
		if inner, ok := v.GetObject("data"); ok {
			v = inner
		}
		var f pictureFields
		if err := m.UnmarshalValue(v, &f); err != nil {
			return err
		}
		*p = Picture(f)
		return nil
	}
	return fmt.Errorf("picture: unexpected %s", v.Kind())
}

// CoverPhoto is the cover image of a user, page, group or event.
type CoverPhoto struct {
	ID      string  `facebook:"id"`
	CoverID string  `facebook:"cover_id"`
	Source  string  `facebook:"source"`
	OffsetX float64 `facebook:"offset_x"`
	OffsetY float64 `facebook:"offset_y"`
}

type Image struct {
	Height int    `facebook:"height"`
	Width  int    `facebook:"width"`
	Source string `facebook:"source"`
}
