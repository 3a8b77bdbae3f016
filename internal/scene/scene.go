// Package scene defines the structured scene record collected from the form
// and fed to the prompt compiler.
package scene

import (
	"fmt"

	"github.com/spf13/viper"
)

// Scene is the set of free-text fields describing one shot. None of the
// fields are validated; empty values are passed through as empty strings.
type Scene struct {
	Title string `mapstructure:"title" json:"title,omitempty" yaml:"title,omitempty"`

	Name      string `mapstructure:"name" json:"name" yaml:"name"`
	Gender    string `mapstructure:"gender" json:"gender" yaml:"gender"`
	Age       string `mapstructure:"age" json:"age" yaml:"age"`
	Origin    string `mapstructure:"origin" json:"origin" yaml:"origin"`
	Hair      string `mapstructure:"hair" json:"hair" yaml:"hair"`
	Clothing  string `mapstructure:"clothing" json:"clothing" yaml:"clothing"`
	SkinColor string `mapstructure:"skin_color" json:"skin_color" yaml:"skin_color"`

	Action     string `mapstructure:"action" json:"action" yaml:"action"`
	Expression string `mapstructure:"expression" json:"expression" yaml:"expression"`
	Location   string `mapstructure:"location" json:"location" yaml:"location"`
	Time       string `mapstructure:"time" json:"time" yaml:"time"`

	CameraMovement string `mapstructure:"camera_movement" json:"camera_movement" yaml:"camera_movement"`
	Lighting       string `mapstructure:"lighting" json:"lighting" yaml:"lighting"`
	VideoStyle     string `mapstructure:"video_style" json:"video_style" yaml:"video_style"`
	VideoMood      string `mapstructure:"video_mood" json:"video_mood" yaml:"video_mood"`

	Sound             string `mapstructure:"sound" json:"sound" yaml:"sound"`
	Dialogue          string `mapstructure:"dialogue" json:"dialogue" yaml:"dialogue"`
	AdditionalDetails string `mapstructure:"additional_details" json:"additional_details" yaml:"additional_details"`
	NegativePrompt    string `mapstructure:"negative_prompt" json:"negative_prompt" yaml:"negative_prompt"`
}

// Defaults used by the form before the user touches anything.
const (
	DefaultTime           = "Senja (Golden Hour)"
	DefaultCameraMovement = "Static Shot"
	DefaultLighting       = "Natural Light"
	DefaultVideoStyle     = "Cinematic"
	DefaultVideoMood      = "Nostalgic"
	DefaultNegativePrompt = "buram, kualitas rendah, teks, logo"
)

// Default returns a scene pre-filled with the form defaults.
func Default() Scene {
	return Scene{
		Time:           DefaultTime,
		CameraMovement: DefaultCameraMovement,
		Lighting:       DefaultLighting,
		VideoStyle:     DefaultVideoStyle,
		VideoMood:      DefaultVideoMood,
		NegativePrompt: DefaultNegativePrompt,
	}
}

// Field is a labelled scene value, used for display.
type Field struct {
	Key   string
	Label string
	Value string
}

// Fields returns every field in the order the compiler restates them.
func (s Scene) Fields() []Field {
	return []Field{
		{"name", "Nama", s.Name},
		{"gender", "Jenis Kelamin", s.Gender},
		{"age", "Usia", s.Age},
		{"origin", "Asal", s.Origin},
		{"hair", "Rambut", s.Hair},
		{"clothing", "Pakaian", s.Clothing},
		{"skin_color", "Warna Kulit", s.SkinColor},
		{"action", "Aksi", s.Action},
		{"expression", "Ekspresi", s.Expression},
		{"location", "Tempat", s.Location},
		{"time", "Waktu", s.Time},
		{"camera_movement", "Gerakan Kamera", s.CameraMovement},
		{"lighting", "Pencahayaan", s.Lighting},
		{"video_style", "Gaya Video", s.VideoStyle},
		{"video_mood", "Suasana Video", s.VideoMood},
		{"sound", "Suara atau Musik", s.Sound},
		{"dialogue", "Kalimat yang Diucapkan", s.Dialogue},
		{"additional_details", "Detail Tambahan", s.AdditionalDetails},
		{"negative_prompt", "Negative Prompt", s.NegativePrompt},
	}
}

// Set assigns the field named by key, as listed by Fields (or "title").
func (s *Scene) Set(key, value string) error {
	ptrs := map[string]*string{
		"title":              &s.Title,
		"name":               &s.Name,
		"gender":             &s.Gender,
		"age":                &s.Age,
		"origin":             &s.Origin,
		"hair":               &s.Hair,
		"clothing":           &s.Clothing,
		"skin_color":         &s.SkinColor,
		"action":             &s.Action,
		"expression":         &s.Expression,
		"location":           &s.Location,
		"time":               &s.Time,
		"camera_movement":    &s.CameraMovement,
		"lighting":           &s.Lighting,
		"video_style":        &s.VideoStyle,
		"video_mood":         &s.VideoMood,
		"sound":              &s.Sound,
		"dialogue":           &s.Dialogue,
		"additional_details": &s.AdditionalDetails,
		"negative_prompt":    &s.NegativePrompt,
	}
	ptr, ok := ptrs[key]
	if !ok {
		return fmt.Errorf("unknown scene field: %s", key)
	}
	*ptr = value
	return nil
}

// Load reads a scene file (YAML, JSON or TOML, chosen by extension) on top
// of Default. Keys missing from the file keep their default value.
func Load(path string) (Scene, error) {
	return LoadOnto(path, Default())
}

// LoadOnto reads a scene file on top of base: keys present in the file
// replace base's values, the rest are kept.
func LoadOnto(path string, base Scene) (Scene, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, base)

	if err := v.ReadInConfig(); err != nil {
		return Scene{}, fmt.Errorf("failed to read scene file: %w", err)
	}

	var s Scene
	if err := v.Unmarshal(&s); err != nil {
		return Scene{}, fmt.Errorf("failed to decode scene file: %w", err)
	}
	return s, nil
}

func setDefaults(v *viper.Viper, base Scene) {
	v.SetDefault("title", base.Title)
	for _, f := range base.Fields() {
		v.SetDefault(f.Key, f.Value)
	}
}
