// Package compiler turns a scene record into the Indonesian generation
// request sent to the text-generation backend.
package compiler

import (
	"fmt"

	"github.com/valpere/veoprompt/internal/scene"
)

// MaxPrimaryChars is the length ceiling requested from the model. The model
// is asked to honour it; nothing enforces it.
const MaxPrimaryChars = 900

// Compile returns the generation request for s. Every field is interpolated
// as-is, so empty fields leave empty slots in the sentence.
func Compile(s scene.Scene) string {
	return fmt.Sprintf(`
Anda adalah seorang penulis skenario ahli dan generator prompt untuk AI video canggih bernama Veo 3.
Tugas Anda adalah mengambil masukan terstruktur di bawah ini dan mengembangkannya menjadi deskripsi adegan sinematik yang kaya, detail, dan sangat kohesif dalam Bahasa Indonesia.

**INPUT DATA:**
- **Karakter:** %s, seorang %s berusia %s dari %s. Dia memiliki rambut %s, kulit %s, dan mengenakan %s.
- **Aksi & Ekspresi:** Dia sedang %s dengan ekspresi wajah yang %s.
- **Setting:** Adegan berlokasi di %s pada waktu %s.
- **Sinematografi:** Gerakan kamera adalah %s, dengan pencahayaan %s untuk menciptakan suasana %s. Gaya visualnya adalah %s.
- **Audio:** Latar belakang suara diisi dengan %s.
- **Dialog:** Karakter mungkin mengucapkan: "%s"
- **Detail Tambahan:** %s
- **Hal yang Dihindari (Negative Prompt):** %s

Berdasarkan data di atas, tulis deskripsi adegan sinematik dalam satu paragraf naratif yang kohesif dalam Bahasa Indonesia. Deskripsi harus detail, imersif, dan menggabungkan semua elemen yang diberikan. Pastikan panjang totalnya maksimal %d karakter dan secara eksplisit HINDARI elemen apa pun dari "Negative Prompt".
`,
		s.Name, s.Gender, s.Age, s.Origin, s.Hair, s.SkinColor, s.Clothing,
		s.Action, s.Expression,
		s.Location, s.Time,
		s.CameraMovement, s.Lighting, s.VideoMood, s.VideoStyle,
		s.Sound,
		s.Dialogue,
		s.AdditionalDetails,
		s.NegativePrompt,
		MaxPrimaryChars,
	)
}
