package device

// WhiteShades is the gradient of whites, warmest first, that SetWhite walks
// along. The entries approximate blackbody colour from roughly 2000K to 9000K
// in even steps.
//
// TODO: swap in the vendor app's shades_of_white values once they're
// available; callers only rely on the length and warm to cold ordering.
var WhiteShades = [...]string{
	"#ff890e", "#ff9124", "#ff9937", "#ffa048", "#ffa757", "#ffad65",
	"#ffb371", "#ffb87d", "#ffbe87", "#ffc391", "#ffc79a", "#ffcca3",
	"#ffd0ab", "#ffd4b2", "#ffd8b9", "#ffdcc0", "#ffe0c7", "#ffe4cd",
	"#ffe7d3", "#ffead9", "#ffedde", "#fff1e4", "#fff4e9", "#fff7ee",
	"#fff9f2", "#fffcf7", "#fffffb", "#fdf8ff", "#f6f4ff", "#f0f1ff",
	"#eceeff", "#e7ecff", "#e4eaff", "#e1e8ff", "#dee6ff", "#dbe5ff",
	"#d9e3ff", "#d7e2ff", "#d5e1ff", "#d3e0ff", "#d2dfff",
}
