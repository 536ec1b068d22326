package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

type SourceKind uint8

const (
	SourceUnknown SourceKind = iota
	// A J3D model (.bmd or .bdl).
	SourceModel
	// A RARC archive, possibly Yaz0 compressed (.arc, .szs).
	SourceArchive
	// A J3D color register animation (.brk).
	SourceAnimation
)

func (k SourceKind) String() string {
	switch k {
	case SourceModel:
		return "model"
	case SourceArchive:
		return "archive"
	case SourceAnimation:
		return "animation"
	default:
		return "unknown"
	}
}

var (
	TypeBMD  = filetype.NewType("bmd", "application/x-j3d-bmd")
	TypeBDL  = filetype.NewType("bdl", "application/x-j3d-bdl")
	TypeRARC = filetype.NewType("arc", "application/x-rarc")
	TypeYaz0 = filetype.NewType("szs", "application/x-yaz0")
	TypeBRK  = filetype.NewType("brk", "application/x-j3d-brk")
)

var kindByType = map[types.Type]SourceKind{
	TypeBMD:  SourceModel,
	TypeBDL:  SourceModel,
	TypeRARC: SourceArchive,
	TypeYaz0: SourceArchive,
	TypeBRK:  SourceAnimation,
}

func init() {
	filetype.AddMatcher(TypeBMD, magicMatcher("J3D2bmd3"))
	filetype.AddMatcher(TypeBDL, magicMatcher("J3D2bdl4"))
	filetype.AddMatcher(TypeRARC, magicMatcher("RARC"))
	filetype.AddMatcher(TypeYaz0, magicMatcher("Yaz0"))
	filetype.AddMatcher(TypeBRK, magicMatcher("J3D1brk1"))
}

func magicMatcher(magic string) func([]byte) bool {
	return func(buf []byte) bool {
		return len(buf) >= len(magic) && string(buf[:len(magic)]) == magic
	}
}

// Classify decides what a path holds from its extension alone.
func Classify(path string) SourceKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmd", ".bdl":
		return SourceModel
	case ".arc", ".szs", ".rarc":
		return SourceArchive
	case ".brk":
		return SourceAnimation
	default:
		return SourceUnknown
	}
}

// Sniff decides what a buffer holds from its magic bytes.
func Sniff(data []byte) SourceKind {
	kind, err := filetype.Match(data)
	if err != nil {
		return SourceUnknown
	}
	return kindByType[kind]
}

// Detect classifies by extension and falls back to the file header when the
// extension is not one the viewer knows.
func Detect(path string) (SourceKind, error) {
	if kind := Classify(path); kind != SourceUnknown {
		return kind, nil
	}
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return SourceUnknown, fmt.Errorf("sniff %s: %w", path, err)
	}
	return kindByType[kind], nil
}
