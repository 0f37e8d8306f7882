package xpobj

import "strings"

// RecordKind identifies the semantic type of a line.
type RecordKind int

const (
	RecordUnknown RecordKind = iota
	RecordTexture
	RecordNormalMetalness
	RecordBlendGlass
	RecordGlobalSpecular
	RecordPointCounts
	RecordLabel
	RecordGroup
	RecordVertex
	RecordLineVertex
	RecordLightVertex
	RecordIndex
	RecordAttribute
	RecordTris
	RecordAnimBegin
	RecordAnimTrans
	RecordAnimTransBegin
	RecordAnimTransKey
	RecordAnimTransEnd
	RecordAnimRotate
	RecordAnimRotateBegin
	RecordAnimRotateKey
	RecordAnimRotateEnd
	RecordAnimHide
	RecordAnimShow
	RecordAnimLoop
	RecordAnimEnd
)

var recordNames = [...]string{
	RecordUnknown:         "Unknown",
	RecordTexture:         "Texture",
	RecordNormalMetalness: "NormalMetalness",
	RecordBlendGlass:      "BlendGlass",
	RecordGlobalSpecular:  "GlobalSpecular",
	RecordPointCounts:     "PointCounts",
	RecordLabel:           "Label",
	RecordGroup:           "Group",
	RecordVertex:          "Vertex",
	RecordLineVertex:      "LineVertex",
	RecordLightVertex:     "LightVertex",
	RecordIndex:           "Index",
	RecordAttribute:       "Attribute",
	RecordTris:            "Tris",
	RecordAnimBegin:       "AnimBegin",
	RecordAnimTrans:       "AnimTrans",
	RecordAnimTransBegin:  "AnimTransBegin",
	RecordAnimTransKey:    "AnimTransKey",
	RecordAnimTransEnd:    "AnimTransEnd",
	RecordAnimRotate:      "AnimRotate",
	RecordAnimRotateBegin: "AnimRotateBegin",
	RecordAnimRotateKey:   "AnimRotateKey",
	RecordAnimRotateEnd:   "AnimRotateEnd",
	RecordAnimHide:        "AnimHide",
	RecordAnimShow:        "AnimShow",
	RecordAnimLoop:        "AnimLoop",
	RecordAnimEnd:         "AnimEnd",
}

// String returns the record kind name.
func (k RecordKind) String() string {
	if k < 0 || int(k) >= len(recordNames) {
		return "Unknown"
	}
	return recordNames[k]
}

var exactTags = map[string]RecordKind{
	"NORMAL_METALNESS":   RecordNormalMetalness,
	"BLEND_GLASS":        RecordBlendGlass,
	"GLOBAL_specular":    RecordGlobalSpecular,
	"POINT_COUNTS":       RecordPointCounts,
	"#":                  RecordLabel,
	"####_group":         RecordGroup,
	"VT":                 RecordVertex,
	"VLINE":              RecordLineVertex,
	"VLIGHT":             RecordLightVertex,
	"TRIS":               RecordTris,
	"ANIM_begin":         RecordAnimBegin,
	"ANIM_trans":         RecordAnimTrans,
	"ANIM_trans_begin":   RecordAnimTransBegin,
	"ANIM_trans_key":     RecordAnimTransKey,
	"ANIM_trans_end":     RecordAnimTransEnd,
	"ANIM_rotate":        RecordAnimRotate,
	"ANIM_rotate_begin":  RecordAnimRotateBegin,
	"ANIM_rotate_key":    RecordAnimRotateKey,
	"ANIM_rotate_end":    RecordAnimRotateEnd,
	"ANIM_hide":          RecordAnimHide,
	"ANIM_show":          RecordAnimShow,
	"ANIM_keyframe_loop": RecordAnimLoop,
	"ANIM_end":           RecordAnimEnd,
}

// Classify maps a record tag to its kind. Exact tags win over the
// TEXTURE, IDX and ATTR_ prefix families.
func Classify(tag string) RecordKind {
	if k, ok := exactTags[tag]; ok {
		return k
	}
	switch {
	case strings.HasPrefix(tag, "TEXTURE"):
		return RecordTexture
	case strings.HasPrefix(tag, "IDX"):
		return RecordIndex
	case strings.HasPrefix(tag, "ATTR_"):
		return RecordAttribute
	}
	return RecordUnknown
}

// Record is one tokenized line.
type Record struct {
	Line int
	Tag  string
	Args []string // fields after the tag
}

// Kind classifies the record tag.
func (r Record) Kind() RecordKind {
	return Classify(r.Tag)
}

// Tokenize splits a raw line into whitespace-separated fields.
// Lines with no fields report ok == false and are skipped.
func Tokenize(line string, lineNo int) (rec Record, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Record{}, false
	}
	return Record{Line: lineNo, Tag: fields[0], Args: fields[1:]}, true
}
