package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Debugf("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "script", "scripts", "scriptlist":
		pterm.Info.Println("ScriptList / Script")
		pterm.Println(`
	ScriptList is a property of GSUB and GPOS.
	It consists of ScriptRecords:
	+------------+----------------+
	| Script Tag | Link to Script |
	+------------+----------------+
	ScriptList behaves as a map.

	A Script table links to a default LangSys entry, and contains a list of LangSys records:
	+--------------------------------+
	| Link to LangSys record         |
	+--------------+-----------------+
	| Language Tag | Link to LangSys |
	+--------------+-----------------+
	Script behaves as a map, with entry 0 as the default link.

	'scripts' lists all scripts, 'scripts:latn' selects script 'latn'
	together with its default LangSys.
	`)
	case "lang", "langsys", "langs", "language":
		pterm.Info.Println("LangSys")
		pterm.Println(`
	LangSys is pointed to from a Script Record.
	It links a language with features to activate. It does so using an index into the feature table.
	+-----------------------------------+
	| Index of required feature or null |
	+-----------------------------------+
	| Index of feature 1                |
	+-----------------------------------+
	| Index of feature 2                |
	+-----------------------------------+
	| ...                               |
	+-----------------------------------+
	LangSys behaves as a list.

	'lang' prints the features of the selected LangSys, 'lang:TRK' selects
	language system 'TRK ' of the current script.
	`)
	case "feature", "features", "find":
		pterm.Info.Println("FeatureList / Feature")
		pterm.Println(`
	FeatureList is a property of GSUB and GPOS. A feature has a tag,
	e.g. 'liga', and a list of indices into the LookupList.
	Different LangSys tables may select different features with the same tag.

	'features' lists all features, 'features:3' prints the lookups of feature #3.
	'find:liga' finds feature 'liga' for the selected LangSys.
	`)
	case "lookup", "lookups":
		pterm.Info.Println("LookupList / Lookup")
		pterm.Println(`
	A lookup has a type, flags and one or more subtables of this type.
	Single substitutions (type 1) and ligature substitutions (type 4) are
	decoded. Extension subtables (type 7) show the subtable they wrap.
	Subtables of other types are listed as 'not decoded'.

	'lookups' lists all lookups, 'lookups:3' prints the subtables of
	lookup #3, 'lookups:3:full' prints all of their substitutions.
	`)
	case "cmap", "glyph", "glyphs":
		pterm.Info.Println("Character Mapping / Glyphs")
		pterm.Println(`
	Table 'cmap' maps code points to glyph indices. It contains subtables
	for different platforms and encodings.

	'cmap' lists the subtables, 'cmap:A' or 'cmap:U+0041' maps a code point.
	'glyph:36' prints metrics and outline information of glyph #36.
	`)
	case "cff", "charstring", "charstrings":
		pterm.Info.Println("CFF / Charstrings")
		pterm.Println(`
	Table 'CFF ' holds PostScript outlines as Type 2 charstrings.

	'cff' prints the Top DICT, 'charstring:36' disassembles the charstring
	of glyph #36.

	'render:36:a.png' renders glyph #36 to file a.png.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	Commands are separated by blanks, arguments are appended with ':'.

	tables               list the table directory
	table:<tag>          select and print a table, e.g. 'table:head'
	errors               print errors and warnings found while parsing
	cmap[:<char>]        print cmap subtables or map a character
	glyph:<gid>          print information about a glyph
	cff                  print the CFF Top DICT
	charstring:<gid>     disassemble a CFF charstring
	render:<gid>[:<png>] render a glyph to a PNG file
	scripts[:<tag>]      list or select GSUB scripts
	lang[:<tag>]         print or select a language system
	features[:<index>]   list GSUB features or print one
	find:<tag>           find a feature for the selected language system
	lookups[:<index>]    list GSUB lookups or print one
	help[:<topic>]       topics: scripts, lang, features, lookups, cmap, cff
	quit                 leave
	`)
	}
}
