package encoding

import (
	"fmt"

	gdenc "github.com/gdamore/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Built-in encodings, registered in Default in this order.
var (
	// UTF8 is the default encoding for ropes created from Go strings.
	UTF8 = Default.MustRegister(Definition{
		Name:            "UTF-8",
		Aliases:         []string{"utf8", "CP65001"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      4,
		Scan:            scanUTF8,
		Codec:           unicode.UTF8,
	})

	ASCII = Default.MustRegister(Definition{
		Name:            "US-ASCII",
		Aliases:         []string{"ASCII", "ANSI_X3.4-1968", "646"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      1,
		Scan:            scanASCII,
		Codec:           gdenc.ASCII,
	})

	ISO8859_1 = Default.MustRegister(Definition{
		Name:            "ISO-8859-1",
		Aliases:         []string{"latin1", "ISO8859-1", "l1"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      1,
		Scan:            scanSingleByte,
		Codec:           charmap.ISO8859_1,
	})

	// Binary treats every byte as a character. It decodes as Latin-1.
	Binary = Default.MustRegister(Definition{
		Name:            "ASCII-8BIT",
		Aliases:         []string{"BINARY"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      1,
		Scan:            scanSingleByte,
		Codec:           charmap.ISO8859_1,
	})

	Windows1252 = Default.MustRegister(Definition{
		Name:            "Windows-1252",
		Aliases:         []string{"CP1252"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      1,
		Scan:            scanSingleByte,
		Codec:           charmap.Windows1252,
	})

	UTF16LE = Default.MustRegister(Definition{
		Name:       "UTF-16LE",
		MinCharLen: 2,
		MaxCharLen: 4,
		Scan:       scanUTF16LE,
		Codec:      unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	})

	UTF16BE = Default.MustRegister(Definition{
		Name:       "UTF-16BE",
		MinCharLen: 2,
		MaxCharLen: 4,
		Scan:       scanUTF16BE,
		Codec:      unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	})

	UTF32LE = Default.MustRegister(Definition{
		Name:       "UTF-32LE",
		MinCharLen: 4,
		MaxCharLen: 4,
		Scan:       scanUTF32LE,
		Codec:      utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	})

	UTF32BE = Default.MustRegister(Definition{
		Name:       "UTF-32BE",
		MinCharLen: 4,
		MaxCharLen: 4,
		Scan:       scanUTF32BE,
		Codec:      utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	})

	ShiftJIS = Default.MustRegister(Definition{
		Name:            "Shift_JIS",
		Aliases:         []string{"SJIS", "Windows-31J", "CP932"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      2,
		Scan:            scanShiftJIS,
		Codec:           japanese.ShiftJIS,
	})

	EUCJP = Default.MustRegister(Definition{
		Name:            "EUC-JP",
		Aliases:         []string{"eucJP"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      3,
		Scan:            scanEUCJP,
		Codec:           japanese.EUCJP,
	})

	EUCKR = Default.MustRegister(Definition{
		Name:            "EUC-KR",
		Aliases:         []string{"eucKR"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      2,
		Scan:            scanEUCKR,
		Codec:           korean.EUCKR,
	})

	GBK = Default.MustRegister(Definition{
		Name:            "GBK",
		Aliases:         []string{"CP936"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      2,
		Scan:            scanGBK,
		Codec:           simplifiedchinese.GBK,
	})

	GB18030 = Default.MustRegister(Definition{
		Name:            "GB18030",
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      4,
		Scan:            scanGB18030,
		Codec:           simplifiedchinese.GB18030,
	})

	Big5 = Default.MustRegister(Definition{
		Name:            "Big5",
		Aliases:         []string{"CP950"},
		ASCIICompatible: true,
		MinCharLen:      1,
		MaxCharLen:      2,
		Scan:            scanBig5,
		Codec:           traditionalchinese.Big5,
	})

	// IBM037 is EBCDIC; it shares no byte values with ASCII.
	IBM037 = Default.MustRegister(Definition{
		Name:       "IBM037",
		Aliases:    []string{"EBCDIC", "ebcdic-cp-us", "cp037"},
		MinCharLen: 1,
		MaxCharLen: 1,
		Scan:       scanSingleByte,
		Codec:      gdenc.EBCDIC,
	})
)

// singleByteCharmaps lists further ASCII compatible single-byte code pages.
var singleByteCharmaps = []struct {
	name    string
	aliases []string
	codec   *charmap.Charmap
}{
	{"ISO-8859-2", []string{"latin2"}, charmap.ISO8859_2},
	{"ISO-8859-3", []string{"latin3"}, charmap.ISO8859_3},
	{"ISO-8859-4", []string{"latin4"}, charmap.ISO8859_4},
	{"ISO-8859-5", []string{"cyrillic"}, charmap.ISO8859_5},
	{"ISO-8859-6", []string{"arabic"}, charmap.ISO8859_6},
	{"ISO-8859-7", []string{"greek"}, charmap.ISO8859_7},
	{"ISO-8859-8", []string{"hebrew"}, charmap.ISO8859_8},
	{"ISO-8859-9", []string{"latin5"}, charmap.ISO8859_9},
	{"ISO-8859-10", []string{"latin6"}, charmap.ISO8859_10},
	{"ISO-8859-13", []string{"latin7"}, charmap.ISO8859_13},
	{"ISO-8859-14", []string{"latin8"}, charmap.ISO8859_14},
	{"ISO-8859-15", []string{"latin9"}, charmap.ISO8859_15},
	{"ISO-8859-16", []string{"latin10"}, charmap.ISO8859_16},
	{"Windows-1250", []string{"CP1250"}, charmap.Windows1250},
	{"Windows-1251", []string{"CP1251"}, charmap.Windows1251},
	{"Windows-1253", []string{"CP1253"}, charmap.Windows1253},
	{"Windows-1254", []string{"CP1254"}, charmap.Windows1254},
	{"Windows-1255", []string{"CP1255"}, charmap.Windows1255},
	{"Windows-1256", []string{"CP1256"}, charmap.Windows1256},
	{"Windows-1257", []string{"CP1257"}, charmap.Windows1257},
	{"Windows-1258", []string{"CP1258"}, charmap.Windows1258},
	{"Windows-874", []string{"CP874"}, charmap.Windows874},
	{"KOI8-R", nil, charmap.KOI8R},
	{"KOI8-U", nil, charmap.KOI8U},
	{"IBM437", []string{"CP437"}, charmap.CodePage437},
	{"IBM866", []string{"CP866"}, charmap.CodePage866},
	{"macintosh", []string{"MacRoman"}, charmap.Macintosh},
}

func init() {
	for _, cm := range singleByteCharmaps {
		if _, err := Default.Register(Definition{
			Name:            cm.name,
			Aliases:         cm.aliases,
			ASCIICompatible: true,
			MinCharLen:      1,
			MaxCharLen:      1,
			Scan:            scanSingleByte,
			Codec:           cm.codec,
		}); err != nil {
			panic(fmt.Sprintf("encoding: registering %s: %v", cm.name, err))
		}
	}
}
