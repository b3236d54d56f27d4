// Package mood maps free-text mood labels to visual specifications.
//
// A small table of hand-authored presets (happy, calm, energetic, tense,
// melancholic) is consulted case-insensitively. Any other text, including the
// empty string, resolves to a generated spec whose palette is rotated around a
// hue taken from the text's hash, so every input yields a valid, stable
// [VisualSpec].
//
//	spec := mood.Resolve("Calm")
//	spec.Palette[0].Hex() // "#8ecae6"
//
// A [Resolver] can extend the table with custom presets loaded from
// configuration; [Resolve] uses the built-in table only.
package mood
