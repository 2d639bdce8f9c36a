package blend

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/blendkit/internal/format"
	"github.com/joshuapare/blendkit/internal/relink"
)

// Profile captures the conventions of one producer application.
//
// Example profile.yaml:
//
//	identifiers: [BLENDER]
//	blob_type: Link
//	skip_types: [wmWindowManager]
//	pointer_array_slot: 4
//	lists:
//	  OB: objects
//	  ME: meshes
type Profile struct {
	// Identifiers are the accepted 7-byte header identifiers. The first is
	// written by Save.
	Identifiers []string `yaml:"identifiers"`
	// Version is the header version Save writes; empty keeps the parsed one.
	Version string `yaml:"version"`
	// BlobType names the struct whose blocks are copied verbatim.
	BlobType string `yaml:"blob_type"`
	// SkipTypes lists memory struct names whose blocks are dropped.
	SkipTypes []string `yaml:"skip_types"`
	// PointerArraySlot is the stored width of one pointer-array entry:
	// 4 or 8, or -1 for the file's pointer width.
	PointerArraySlot int `yaml:"pointer_array_slot"`
	// Lists maps chunk codes to the list names blocks are routed into.
	// Codes without an entry use the code itself.
	Lists map[string]string `yaml:"lists"`
}

// DefaultProfile returns the conventions of Blender files.
func DefaultProfile() Profile {
	return Profile{
		Identifiers:      append([]string(nil), format.DefaultIdentifiers...),
		BlobType:         relink.DefaultBlobType,
		PointerArraySlot: relink.DefaultPointerArraySlot,
		Lists: map[string]string{
			"AC":   "actions",
			"AR":   "armatures",
			"BR":   "brushes",
			"CA":   "cameras",
			"CU":   "curves",
			"DATA": "data",
			"GLOB": "globals",
			"GR":   "groups",
			"IM":   "images",
			"LA":   "lamps",
			"LI":   "libraries",
			"MA":   "materials",
			"ME":   "meshes",
			"NT":   "nodetrees",
			"OB":   "objects",
			"REND": "render",
			"SC":   "scenes",
			"SN":   "screens",
			"SO":   "sounds",
			"TE":   "textures",
			"TEST": "thumbnail",
			"TX":   "texts",
			"WM":   "windowmanagers",
			"WO":   "worlds",
		},
	}
}

// ListName returns the list blocks with code are routed into.
func (p *Profile) ListName(code format.Code) string {
	if name, ok := p.Lists[code.String()]; ok {
		return name
	}
	return code.String()
}

// LoadProfile reads a YAML profile. Keys absent from the file keep their
// DefaultProfile values; a lists mapping is merged over the defaults.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML profile document.
func ParseProfile(data []byte) (Profile, error) {
	p := DefaultProfile()
	defaults := p.Lists
	p.Lists = nil
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}
	for code, name := range defaults {
		if _, ok := p.Lists[code]; !ok {
			if p.Lists == nil {
				p.Lists = make(map[string]string, len(defaults))
			}
			p.Lists[code] = name
		}
	}
	if len(p.Identifiers) == 0 {
		return Profile{}, fmt.Errorf("profile: no identifiers")
	}
	for _, id := range p.Identifiers {
		if len(id) != format.IdentifierSize {
			return Profile{}, fmt.Errorf("profile: identifier %q is not %d bytes", id, format.IdentifierSize)
		}
	}
	switch p.PointerArraySlot {
	case 4, 8, relink.SlotFilePointer:
	default:
		return Profile{}, fmt.Errorf("profile: pointer_array_slot %d not one of 4, 8, -1", p.PointerArraySlot)
	}
	return p, nil
}

// Marshal renders p as YAML.
func (p *Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// ProfilePath returns the per-user profile location,
// e.g. ~/.config/blendkit/profile.yaml. Empty when no config dir is known.
func ProfilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "blendkit", "profile.yaml")
}
