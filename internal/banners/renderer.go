package banners

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/portaldovale/backend/internal/models"
)

// videoExtensions are the media extensions the video template will play
// inline. Anything else degrades to a static image with a play affordance.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".ogg":  true,
	".mov":  true,
	".m4v":  true,
}

// HasVideoExtension reports whether the URL path ends in a playable
// video extension.
func HasVideoExtension(mediaURL string) bool {
	u := mediaURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return videoExtensions[strings.ToLower(path.Ext(u))]
}

// View is the rendering payload served to the front end for one slot.
// A nil View means the slot renders nothing (empty eligible list).
type View struct {
	Template     string     `json:"template"`
	Items        []ViewItem `json:"items"`
	RotationMS   int        `json:"rotation_ms,omitempty"`
	InfiniteLoop bool       `json:"infinite_loop,omitempty"`
	ShowArrows   bool       `json:"show_arrows,omitempty"`
	Columns      int        `json:"columns,omitempty"`
	ItemHeight   int        `json:"item_height,omitempty"`
}

// ViewItem is one creative within a view.
type ViewItem struct {
	BannerID   uuid.UUID   `json:"banner_id"`
	Title      string      `json:"title"`
	MediaURL   string      `json:"media_url,omitempty"`
	TargetURL  string      `json:"target_url,omitempty"`
	OpenNewTab bool        `json:"open_new_tab,omitempty"`
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`
	Player     *PlayerView `json:"player,omitempty"`
}

// PlayerView describes the inline video player for a video-template item.
// When nil on a video slot, the item is an image with a play affordance.
type PlayerView struct {
	Autoplay         bool `json:"autoplay"`
	Muted            bool `json:"muted"`
	Controls         bool `json:"controls"`
	ReportEndAsClick bool `json:"report_end_as_click"`
}

// Render builds the view for a slot's banners. Every template renders
// nothing for an empty list: no placeholder, no error. The switch is
// exhaustive over TemplateKind.
func Render(kind TemplateKind, banners []models.Banner, cfg models.SlotConfig, device models.DeviceClass) *View {
	if len(banners) == 0 {
		return nil
	}
	switch kind {
	case TemplateCarousel:
		return renderCarousel(banners, cfg)
	case TemplateGrid:
		return renderGrid(banners, cfg, device)
	case TemplateStatic:
		return renderStatic(banners)
	case TemplateVideo:
		return renderVideo(banners, cfg)
	case TemplateCustom:
		return renderCustom(banners)
	}
	return nil
}

func item(b models.Banner) ViewItem {
	return ViewItem{
		BannerID:   b.ID,
		Title:      b.Title,
		MediaURL:   b.MediaURL,
		TargetURL:  b.TargetURL,
		OpenNewTab: b.OpenNewTab,
		Width:      b.Width,
		Height:     b.Height,
	}
}

func renderCarousel(banners []models.Banner, cfg models.SlotConfig) *View {
	rotation := cfg.RotationMS
	if rotation <= 0 {
		rotation = DefaultRotationMS
	}
	items := make([]ViewItem, 0, len(banners))
	for _, b := range banners {
		items = append(items, item(b))
	}
	// A single creative still renders and is clickable, but without
	// timer or arrow controls.
	single := len(banners) == 1
	v := &View{
		Template:     TemplateCarousel.String(),
		Items:        items,
		InfiniteLoop: cfg.InfiniteLoop,
		ShowArrows:   !single,
	}
	if !single {
		v.RotationMS = rotation
	}
	return v
}

func renderGrid(banners []models.Banner, cfg models.SlotConfig, device models.DeviceClass) *View {
	columns := cfg.Columns
	if columns <= 0 {
		columns = 3
	}
	if device == models.DeviceMobile {
		columns = 1
	}
	rows := (len(banners) + columns - 1) / columns
	itemHeight := 0
	if cfg.Height > 0 && rows > 0 {
		itemHeight = cfg.Height / rows
	}
	items := make([]ViewItem, 0, len(banners))
	for _, b := range banners {
		items = append(items, item(b))
	}
	return &View{
		Template:   TemplateGrid.String(),
		Items:      items,
		Columns:    columns,
		ItemHeight: itemHeight,
	}
}

func renderStatic(banners []models.Banner) *View {
	return &View{
		Template: TemplateStatic.String(),
		Items:    []ViewItem{item(banners[0])},
	}
}

func renderVideo(banners []models.Banner, cfg models.SlotConfig) *View {
	it := item(banners[0])
	if HasVideoExtension(banners[0].MediaURL) {
		it.Player = &PlayerView{
			Autoplay:         cfg.Autoplay,
			Muted:            cfg.Autoplay, // browsers require muted autoplay
			Controls:         true,
			ReportEndAsClick: true,
		}
	}
	return &View{
		Template: TemplateVideo.String(),
		Items:    []ViewItem{it},
	}
}

func renderCustom(banners []models.Banner) *View {
	// Escape hatch: a fixed decorative block built from the first
	// creative's title; everything else in the config is ignored.
	return &View{
		Template: TemplateCustom.String(),
		Items:    []ViewItem{{BannerID: banners[0].ID, Title: banners[0].Title}},
	}
}
