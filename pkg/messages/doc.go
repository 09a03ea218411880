// Package messages renders verify violations in different languages.
//
// Every violation produced by the built-in validators carries a
// translation key such as "verify.length.min" and the values needed to
// fill it. A Catalog maps those keys to templates per language:
//
//	en:
//	  verify:
//	    length:
//	      min: "must be at least %{min} characters long"
//
// Catalogs are loaded from YAML or JSON files (FileSource, FSSource), from
// memory (MapSource), or from the built-in English and German templates
// (DefaultSource). Lookups fall back from the requested language to its
// base language, then to the default language, and finally to the English
// message stored in the violation.
package messages
