package postprocess

import "testing"

type cleanCase struct {
	name  string
	input string
	want  string
}

func runCases(t *testing.T, fn func(string) string, fnName string, cases []cleanCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fn(tc.input); got != tc.want {
				t.Errorf("%s(%q) = %q, want %q", fnName, tc.input, got, tc.want)
			}
		})
	}
}

func TestRemoveThinkingBlocks(t *testing.T) {
	runCases(t, removeThinkingBlocks, "removeThinkingBlocks", []cleanCase{
		{"empty", "", ""},
		{"plain paragraph", "Raka berlari menembus hujan.", "Raka berlari menembus hujan."},
		{"think tag", "<think>Adegan perlu hujan.</think>Raka berlari.", "Raka berlari."},
		{"thinking tag", "Raka<thinking>nama karakter</thinking> berlari.", "Raka berlari."},
		{"reasoning tag", "<reasoning>kamera statis</reasoning>Kamera diam.", "Kamera diam."},
		{"reflection tag", "A man runs.<reflection>check dialogue</reflection>", "A man runs."},
		{"two blocks", "<think>a</think>Sari menoleh.<think>b</think>", "Sari menoleh."},
		{"case insensitive", "<THINKING>x</THINKING>Hujan turun.", "Hujan turun."},
		{"multiline block", "<think>\nbaris satu\nbaris dua\n</think>\nLampu jalan berkedip.", "Lampu jalan berkedip."},
		{"cut off at start", "<think>Model terpotong di sini", ""},
		{"cut off after text", "Raka berhenti.<reasoning>belum selesai", "Raka berhenti."},
	})
}

func TestRemoveInstructionEchoes(t *testing.T) {
	runCases(t, removeInstructionEchoes, "removeInstructionEchoes", []cleanCase{
		{"empty", "", ""},
		{"no echo", "A woman waits at the station.", "A woman waits at the station."},
		{"here is english prompt", "Here is the English prompt: A man runs", "A man runs"},
		{"here's translation", "Here's the translation: Rain falls on the market.", "Rain falls on the market."},
		{"here's translated text", "Here's the translated text: Done", "Done"},
		{"bare translation label", "Translation: The camera pans left.", "The camera pans left."},
		{"english translation label", "The English translation: Neon lights flicker.", "Neon lights flicker."},
		{"translated prompt label", "Translated prompt: Dawn breaks.", "Dawn breaks."},
		{"certainly", "Certainly, here is the English prompt: A boy laughs.", "A boy laughs."},
		{"sure", "Sure. Here's the translation: Thunder rolls.", "Thunder rolls."},
		{"berikut deskripsi", "Berikut adalah deskripsi adegan sinematik: Seorang pria berlari", "Seorang pria berlari"},
		{"berikut ini prompt", "Berikut ini prompt untuk Veo 3: Kabut turun", "Kabut turun"},
		{"ini adalah prompt", "Ini adalah prompt untuk Veo 3: Hujan turun", "Hujan turun"},
		{"echo mid text", "Raka says: here is the translation: nothing", "Raka says: here is the translation: nothing"},
		{"no colon", "Here is the prompt you asked for", "Here is the prompt you asked for"},
		{"label too far from colon", "Berikut adalah deskripsi yang sangat panjang sekali tentang adegan malam hari di kota besar yang ramai: x",
			"Berikut adalah deskripsi yang sangat panjang sekali tentang adegan malam hari di kota besar yang ramai: x"},
	})
}

func TestRemoveQuoteWrapping(t *testing.T) {
	runCases(t, removeQuoteWrapping, "removeQuoteWrapping", []cleanCase{
		{"empty", "", ""},
		{"single rune", "\"", "\""},
		{"unwrapped", "Raka berlari.", "Raka berlari."},
		{"straight double", "\"Raka berlari.\"", "Raka berlari."},
		{"straight single", "'Raka berlari.'", "Raka berlari."},
		{"guillemets", "«Raka berlari.»", "Raka berlari."},
		{"curly double", "“Raka berlari.”", "Raka berlari."},
		{"curly single", "‘Raka berlari.’", "Raka berlari."},
		{"inner padding", "\"  Raka berlari.  \"", "Raka berlari."},
		{"mismatched pair", "\"Raka berlari.'", "\"Raka berlari.'"},
		{"opening only", "\"Raka berlari.", "\"Raka berlari."},
		{"opens and closes with dialogue", "\"Tunggu aku!\" teriaknya sambil berlari. \"Cepat!\"", "\"Tunggu aku!\" teriaknya sambil berlari. \"Cepat!\""},
		{"apostrophe inside", "'Raka's umbrella'", "'Raka's umbrella'"},
	})
}

func TestClean(t *testing.T) {
	runCases(t, Clean, "Clean", []cleanCase{
		{"empty", "", ""},
		{"already clean", "Raka runs through the rain.", "Raka runs through the rain."},
		{"all phases", "<think>plan</think>Here is the English prompt:\n\"Raka runs through the rain.\"", "Raka runs through the rain."},
		{"indonesian preamble and quotes", "Berikut adalah deskripsi adegan: “Sari menatap laut.”", "Sari menatap laut."},
		{"sentinels untouched", "He yelled \"<<<DIALOGUE>>>Tunggu aku!<<<END_DIALOGUE>>>\" into the rain.", "He yelled \"<<<DIALOGUE>>>Tunggu aku!<<<END_DIALOGUE>>>\" into the rain."},
		{"negative prompt line kept", "A man runs.\nNegative prompt: blurry, text", "A man runs.\nNegative prompt: blurry, text"},
		{"truncated reasoning", "A man runs.<reasoning>cut", "A man runs."},
	})
}
