// Package examples ships the built-in tense action scenes and the keyword
// gate that hides all but the first of them.
//
// The gate is a content toggle, not access control: the keyword is compiled
// into the binary.
package examples

import (
	"errors"
	"fmt"

	"github.com/valpere/veoprompt/internal/scene"
)

// UnlockKey reveals the full example list.
const UnlockKey = "lanexa@25"

var (
	ErrWrongKey = errors.New("kata kunci salah")
	ErrLocked   = errors.New("example is locked")
)

// LockedVisible is how many examples a locked gate shows.
const LockedVisible = 1

var tenseAction = []scene.Scene{
	{
		Title:             "Kejaran di Pasar Malam",
		Name:              "Raka",
		Gender:            "pria",
		Age:               "28 tahun",
		Origin:            "Jakarta",
		Hair:              "hitam pendek basah oleh keringat",
		Clothing:          "jaket kulit cokelat lusuh dan kaus hitam",
		SkinColor:         "sawo matang",
		Action:            "berlari menerobos kerumunan pasar malam sambil menoleh ke belakang",
		Expression:        "panik namun penuh tekad",
		Location:          "pasar malam yang padat dengan lampu gantung warna-warni",
		Time:              "Malam",
		CameraMovement:    "Handheld Tracking Shot",
		Lighting:          "Neon Light",
		VideoStyle:        "Cinematic",
		VideoMood:         "Tense",
		Sound:             "teriakan pedagang, langkah kaki berderap, dan dengung generator",
		Dialogue:          "Mereka sudah dekat, jangan berhenti!",
		AdditionalDetails: "asap sate mengepul menghalangi pandangan, lampion bergoyang tertabrak",
		NegativePrompt:    scene.DefaultNegativePrompt,
	},
	{
		Title:             "Jembatan Gantung Putus",
		Name:              "Sari",
		Gender:            "wanita",
		Age:               "24 tahun",
		Origin:            "Toraja",
		Hair:              "panjang dikepang",
		Clothing:          "kemeja flanel merah dan celana kargo",
		SkinColor:         "kuning langsat",
		Action:            "bergelantungan pada tali jembatan yang putus di atas jurang",
		Expression:        "ketakutan sambil menggigit bibir",
		Location:          "jurang berkabut di pegunungan",
		Time:              "Pagi berkabut",
		CameraMovement:    "Crane Shot",
		Lighting:          "Soft Diffused Light",
		VideoStyle:        "Cinematic",
		VideoMood:         "Suspenseful",
		Sound:             "angin menderu, tali berderit, dan batu berjatuhan",
		Dialogue:          "Tolong, aku tidak kuat lagi!",
		AdditionalDetails: "papan kayu jatuh satu per satu ke sungai deras di bawah",
		NegativePrompt:    scene.DefaultNegativePrompt,
	},
	{
		Title:             "Bom Waktu di Kereta",
		Name:              "Dimas",
		Gender:            "pria",
		Age:               "35 tahun",
		Origin:            "Surabaya",
		Hair:              "cepak",
		Clothing:          "seragam teknisi biru dengan sarung tangan",
		SkinColor:         "sawo matang",
		Action:            "memotong kabel bom di bawah kursi gerbong kereta yang melaju",
		Expression:        "tegang dengan keringat menetes di pelipis",
		Location:          "gerbong kereta api kosong yang berguncang",
		Time:              "Sore",
		CameraMovement:    "Extreme Close-Up",
		Lighting:          "Low Key Lighting",
		VideoStyle:        "Thriller",
		VideoMood:         "Tense",
		Sound:             "detak jam yang makin cepat dan gemuruh roda kereta",
		Dialogue:          "Merah atau biru... pilih sekarang.",
		AdditionalDetails: "layar timer menunjukkan sepuluh detik tersisa",
		NegativePrompt:    scene.DefaultNegativePrompt,
	},
	{
		Title:             "Atap Gedung Saat Badai",
		Name:              "Laras",
		Gender:            "wanita",
		Age:               "30 tahun",
		Origin:            "Bandung",
		Hair:              "bob pendek tertiup angin",
		Clothing:          "mantel hujan hitam panjang",
		SkinColor:         "putih",
		Action:            "melompat dari satu atap gedung ke atap lainnya",
		Expression:        "fokus dan dingin",
		Location:          "atap gedung pencakar langit di tengah kota",
		Time:              "Malam badai",
		CameraMovement:    "Slow Motion Tracking",
		Lighting:          "Lightning Flashes",
		VideoStyle:        "Cinematic",
		VideoMood:         "Epic",
		Sound:             "guntur, hujan deras, dan sirene di kejauhan",
		Dialogue:          "Kalau aku jatuh, lanjutkan tanpa aku.",
		AdditionalDetails: "kilat menerangi siluetnya di udara",
		NegativePrompt:    scene.DefaultNegativePrompt,
	},
}

// All returns a copy of every built-in example.
func All() []scene.Scene {
	out := make([]scene.Scene, len(tenseAction))
	copy(out, tenseAction)
	return out
}

// Gate tracks whether the keyword has been entered.
type Gate struct {
	key      string
	unlocked bool
}

// NewGate returns a locked gate. An empty key uses UnlockKey.
func NewGate(key string) *Gate {
	if key == "" {
		key = UnlockKey
	}
	return &Gate{key: key}
}

// Unlock opens the gate when input matches the keyword exactly.
func (g *Gate) Unlock(input string) error {
	if input != g.key {
		return ErrWrongKey
	}
	g.unlocked = true
	return nil
}

func (g *Gate) Unlocked() bool {
	return g.unlocked
}

// Visible returns the examples the gate currently shows.
func (g *Gate) Visible() []scene.Scene {
	all := All()
	if g.unlocked || len(all) <= LockedVisible {
		return all
	}
	return all[:LockedVisible]
}

// Example returns the i-th example (zero-based).
func (g *Gate) Example(i int) (scene.Scene, error) {
	if i < 0 || i >= len(tenseAction) {
		return scene.Scene{}, fmt.Errorf("example %d out of range (have %d)", i+1, len(tenseAction))
	}
	if !g.unlocked && i >= LockedVisible {
		return scene.Scene{}, fmt.Errorf("example %d: %w", i+1, ErrLocked)
	}
	return tenseAction[i], nil
}
