// internal/domain/models/settings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings holds the app identity and color theme, editable by admins.
// The collection is effectively a singleton: the first record is
// authoritative, and Save upserts it in place.
type Settings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	AppName string `bson:"app_name" json:"app_name"`
	AppLogo string `bson:"app_logo,omitempty" json:"app_logo,omitempty"`
	TagLine string `bson:"tag_line,omitempty" json:"tag_line,omitempty"`

	// ColorTheme names one of the built-in palettes (theme.Palettes).
	// CustomColors, when set, override the named palette slot by slot.
	ColorTheme   string        `bson:"color_theme,omitempty" json:"color_theme,omitempty"`
	CustomColors *CustomColors `bson:"custom_colors,omitempty" json:"custom_colors,omitempty"`

	CreatedDate time.Time `bson:"created_date" json:"created_date"`
	UpdatedDate time.Time `bson:"updated_date" json:"updated_date"`
	CreatedBy   string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// CustomColors is the nine-slot color map the theme layer turns into CSS
// custom properties. JSON keys match the snapshot format ("sectionBg" is
// camel-cased there).
type CustomColors struct {
	Primary    string `bson:"primary,omitempty" json:"primary,omitempty"`
	Secondary  string `bson:"secondary,omitempty" json:"secondary,omitempty"`
	Accent     string `bson:"accent,omitempty" json:"accent,omitempty"`
	Background string `bson:"background,omitempty" json:"background,omitempty"`
	Muted      string `bson:"muted,omitempty" json:"muted,omitempty"`
	Foreground string `bson:"foreground,omitempty" json:"foreground,omitempty"`
	Highlight  string `bson:"highlight,omitempty" json:"highlight,omitempty"`
	Neutral    string `bson:"neutral,omitempty" json:"neutral,omitempty"`
	SectionBg  string `bson:"sectionBg,omitempty" json:"sectionBg,omitempty"`
}

// Defaults used before any settings record exists.
const (
	DefaultAppName    = "Community Hub"
	DefaultTagLine    = "Let's make an impact today!"
	DefaultColorTheme = "purple-sage"
)
