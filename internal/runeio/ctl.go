package runeio

import (
	"errors"
	"strconv"
	"strings"
)

// ControlRune represents a named control unicode codepoint.
type ControlRune struct {
	N string
	R rune
}

// c0Names lists the classic ASCII control mnemonics, indexed by codepoint.
var c0Names = [32]string{
	"NUL", "SOH", "STX", "ETX", "EOT", "ENQ", "ACK", "BEL",
	"BS", "HT", "NL", "VT", "NP", "CR", "SO", "SI",
	"DLE", "DC1", "DC2", "DC3", "DC4", "NAK", "SYN", "ETB",
	"CAN", "EM", "SUB", "ESC", "FS", "GS", "RS", "US",
}

// c1Names lists the extended ISO-8859 control mnemonics, indexed by
// codepoint-0x80.
var c1Names = [32]string{
	"PAD", "HOP", "BPH", "NBH", "IND", "NEL", "SSA", "ESA",
	"HTS", "HTJ", "VTS", "PLD", "PLU", "RI", "SS2", "SS3",
	"DCS", "PU1", "PU2", "STS", "CCH", "MW", "SPA", "EPA",
	"SOS", "SGCI", "SCI", "CSI", "ST", "OSC", "PM", "APC",
}

// Controls lists every named control rune: C0, space, delete, and C1.
var Controls []ControlRune

// ControlWords maps control mnemonic strings to runes.
// Includes alias for caret forms like ^@ for <NUL>, ^C for <ETX>, and ^[ for <ESC> .
var ControlWords map[string]rune

func init() {
	for i, n := range c0Names {
		Controls = append(Controls, ControlRune{"<" + n + ">", rune(i)})
	}
	Controls = append(Controls, ControlRune{"<SP>", 0x20}, ControlRune{"<DEL>", 0x7f})
	for i, n := range c1Names {
		Controls = append(Controls, ControlRune{"<" + n + ">", 0x80 + rune(i)})
	}

	ControlWords = make(map[string]rune, 3*len(Controls))
	for _, ctl := range Controls {
		ControlWords[strings.ToUpper(ctl.N)] = ctl.R
		ControlWords[strings.ToLower(ctl.N)] = ctl.R
		if caret := CaretForm(ctl.R); caret != "" {
			ControlWords[caret] = ctl.R
		}
	}
}

// CaretForm computes the ^-escaped printable form of a control rune.
func CaretForm(r rune) string {
	if r < 0x20 || r == 0x7f {
		return "^" + string(r^0x40)
	} else if 0x80 <= r && r <= 0x9f {
		return "^[" + string(r^0xc0)
	}
	return ""
}

var errInvalidRune = errors.New(`rune literal must be "^X" "<NAME>" or 'X'`)

// UnquoteRune extends the standard strconv.UnquoteChar parsing with additional
// mnemonics like <ESC> and caret-forms like ^[.
func UnquoteRune(token string) (rune, error) {
	if r, defined := ControlWords[token]; defined {
		return r, nil
	}

	runes := []rune(token)
	switch {
	case len(runes) < 3 || runes[0] != '\'' || runes[len(runes)-1] != '\'':
		return 0, errInvalidRune
	case len(runes) > 4:
		return 0, errInvalidRune
	}

	value, _, tail, err := strconv.UnquoteChar(token[1:], '\'')
	if err != nil {
		return 0, err
	}
	if tail != "'" {
		return 0, errInvalidRune
	}
	return value, nil
}
