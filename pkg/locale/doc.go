// Package locale provides the locale-scoped data pools placeholders draw
// from, and the ambient locale setting.
//
// Locales are golang.org/x/text/language tags. Data packs are YAML files
// mapping a category name to its candidate values:
//
//	first: [James, Mary, John]
//	city: [New York, Chicago]
//	prefix.mobile: ["201", "310"]
//
// The embedded pool ships packs for en, zh, de, fr and ja. A request for an
// unsupported region falls back to the pack of the same language
// (zh-TW uses zh), then to the closest match, then to en. A category missing
// from a pack is looked up in the en pack before failing with
// ErrUnknownCategory.
//
// Additional packs can be loaded from disk and layered over the embedded
// data:
//
//	custom, err := locale.LoadFile("pets.yaml")
//	pool := locale.Layered(custom, locale.Embedded())
//	names, err := pool.Get(language.English, "petname")
package locale
