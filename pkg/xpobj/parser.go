// Package xpobj parses X-Plane .obj text files into a scene graph of
// meshes, animation nodes and groups over a shared point table.
package xpobj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/xpobj/pkg/encoding"
	"github.com/Faultbox/xpobj/pkg/math"
)

// maxLineBytes bounds a single record. IDX10 and VT lines are short; this
// only guards against binary input.
const maxLineBytes = 1 << 20

// Options configures a parse.
type Options struct {
	Logger   *zap.Logger // nil disables logging
	Encoding string      // input charset, default utf-8
	Strict   bool        // fail on point count mismatches
}

// handler applies one record to the parse context. A returned error is
// recorded as a diagnostic and parsing continues.
type handler func(c *parseContext, rec Record) error

var handlers = map[RecordKind]handler{
	RecordTexture:         handleTexture,
	RecordNormalMetalness: handleNormalMetalness,
	RecordBlendGlass:      handleBlendGlass,
	RecordGlobalSpecular:  handleGlobalSpecular,
	RecordPointCounts:     handlePointCounts,
	RecordLabel:           handleLabel,
	RecordGroup:           handleGroup,
	RecordVertex:          func(c *parseContext, rec Record) error { return c.scene.Points.AddVertex(rec.Args) },
	RecordLineVertex:      func(c *parseContext, rec Record) error { return c.scene.Points.AddLineVertex(rec.Args) },
	RecordLightVertex:     func(c *parseContext, rec Record) error { return c.scene.Points.AddLightVertex(rec.Args) },
	RecordIndex:           func(c *parseContext, rec Record) error { return c.scene.Points.AddIndices(rec.Args) },
	RecordAttribute:       handleAttribute,
	RecordTris:            handleTris,
	RecordAnimBegin:       handleAnimBegin,
	RecordAnimTrans:       handleAnimTrans,
	RecordAnimTransBegin:  handleAnimTransBegin,
	RecordAnimTransKey:    handleAnimTransKey,
	RecordAnimTransEnd:    func(c *parseContext, rec Record) error { return c.endTable(rec.Tag, KeyTranslation) },
	RecordAnimRotate:      handleAnimRotate,
	RecordAnimRotateBegin: handleAnimRotateBegin,
	RecordAnimRotateKey:   handleAnimRotateKey,
	RecordAnimRotateEnd:   func(c *parseContext, rec Record) error { return c.endTable(rec.Tag, KeyRotation) },
	RecordAnimHide:        handleAnimHide,
	RecordAnimShow:        handleAnimShow,
	RecordAnimLoop:        handleAnimLoop,
	RecordAnimEnd:         handleAnimEnd,
}

// ParseFile opens and parses an .obj file. The scene is named after the
// file stem. The file is closed on every return path.
func ParseFile(path string, opts Options) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResource, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(f, name, opts)
}

// Parse reads an .obj stream in a single forward pass.
//
// Record-level problems never fail the parse; they are collected in
// Scene.Diagnostics. An error is returned for unreadable input, and in
// strict mode for point count mismatches, in which case the scene is
// still returned.
func Parse(r io.Reader, name string, opts Options) (*Scene, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("object", name))

	src, err := encoding.NewReader(r, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	scene := &Scene{Name: name}
	ctx := newParseContext(scene, log)

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		rec, ok := Tokenize(scanner.Text(), lineNo)
		if !ok {
			continue
		}
		if ctx.headerStage < 3 {
			if scene.Header.headerStep(ctx.headerStage, rec) {
				ctx.headerStage++
				continue
			}
			if ctx.headerStage < 3 {
				ctx.report(rec, fmt.Errorf("%w: missing or incomplete I/A, version, OBJ header", ErrMalformedRecord))
				ctx.headerStage = 3
			}
		}
		ctx.dispatch(rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrResource, name, err)
	}

	ctx.finish()

	integrity := ctx.checkIntegrity()
	counts := scene.Counts()
	log.Info("parsed object",
		zap.Int("lines", lineNo),
		zap.Int("meshes", counts.Meshes),
		zap.Int("animated", counts.Animated),
		zap.Int("groups", counts.Groups),
		zap.Int("diagnostics", len(scene.Diagnostics)))

	if opts.Strict && len(integrity) > 0 {
		return scene, errors.Join(integrity...)
	}
	return scene, nil
}

// dispatch routes a record to its handler. Unknown tags are skipped.
func (c *parseContext) dispatch(rec Record) {
	h, ok := handlers[rec.Kind()]
	if !ok {
		return
	}
	if err := h(c, rec); err != nil {
		c.report(rec, err)
	}
}

// checkIntegrity compares POINT_COUNTS with what was captured.
func (c *parseContext) checkIntegrity() []error {
	var errs []error
	if c.scene.Declared == nil {
		if got := c.scene.Points.Captured(); got != (PointCounts{}) {
			errs = append(errs, fmt.Errorf("%w: geometry present without POINT_COUNTS", ErrIntegrityMismatch))
		}
	} else {
		errs = c.scene.Declared.Check(&c.scene.Points)
	}
	for _, err := range errs {
		c.reportEOF(err)
	}
	return errs
}

func handleTexture(c *parseContext, rec Record) error {
	if len(rec.Args) < 1 {
		return malformed(rec.Tag+" <file>", rec.Args)
	}
	m := &c.scene.Material
	switch rec.Tag {
	case "TEXTURE":
		m.Texture = rec.Args[0]
	case "TEXTURE_NORMAL":
		m.TextureNormal = rec.Args[0]
	case "TEXTURE_LIT":
		m.TextureLit = rec.Args[0]
	default:
		c.log.Debug("texture directive ignored", zap.String("tag", rec.Tag))
	}
	return nil
}

func handleNormalMetalness(c *parseContext, _ Record) error {
	c.scene.Material.NormalMetalness = true
	return nil
}

func handleBlendGlass(c *parseContext, _ Record) error {
	c.scene.Material.BlendGlass = true
	return nil
}

func handleGlobalSpecular(c *parseContext, rec Record) error {
	if len(rec.Args) != 1 {
		return malformed("GLOBAL_specular <ratio>", rec.Args)
	}
	v, err := strconv.ParseFloat(rec.Args[0], 32)
	if err != nil {
		return fmt.Errorf("%w: GLOBAL_specular %q", ErrMalformedRecord, rec.Args[0])
	}
	c.scene.Material.GlobalSpecular = float32(v)
	c.scene.Material.HasSpecular = true
	if v != 1.0 {
		c.log.Warn("GLOBAL_specular is not 1.0, newer exporters override it", zap.Float64("value", v))
	}
	return nil
}

func handlePointCounts(c *parseContext, rec Record) error {
	pc, err := ParsePointCounts(rec.Args)
	if err != nil {
		return err
	}
	c.scene.Declared = &pc
	return nil
}

func handleLabel(c *parseContext, rec Record) error {
	if len(rec.Args) == 0 {
		return nil
	}
	c.label = rec.Args[0]
	return nil
}

func handleGroup(c *parseContext, rec Record) error {
	c.openGroup(strings.Join(rec.Args, " "))
	return nil
}

func handleAttribute(c *parseContext, rec Record) error {
	if rec.Tag == "ATTR_LOD" {
		lod, err := ParseLOD(rec.Args)
		if err != nil {
			return err
		}
		if c.firstCommand {
			if lod.Near != 0 {
				return fmt.Errorf("%w: near bound of the global ATTR_LOD must be 0, got %d", ErrMalformedRecord, lod.Near)
			}
			c.scene.LOD = &lod
			c.firstCommand = false
			return nil
		}
		if c.scene.LOD != nil {
			return fmt.Errorf("%w: ATTR_LOD already set file-wide to %d-%d",
				ErrConflictingGlobalAttribute, c.scene.LOD.Near, c.scene.LOD.Far)
		}
	}

	attr, err := NewAttribute(rec.Tag, rec.Args)
	if err != nil {
		return err
	}
	cur := c.ensureCurrent()
	cur.Attributes = append(cur.Attributes, attr)
	c.firstCommand = false
	return nil
}

func handleTris(c *parseContext, rec Record) error {
	c.firstCommand = false
	label := c.takeLabel()
	if len(rec.Args) != 2 {
		return malformed("TRIS <offset> <count>", rec.Args)
	}
	offset, err1 := strconv.Atoi(rec.Args[0])
	count, err2 := strconv.Atoi(rec.Args[1])
	if err1 != nil || err2 != nil {
		return fmt.Errorf("%w: TRIS offset and count must be integers", ErrMalformedRecord)
	}
	faces, err := c.scene.Points.SliceFaces(offset, count)
	if err != nil {
		return err
	}
	if count%3 != 0 {
		c.diagnose(rec, "record truncated",
			fmt.Errorf("%w: TRIS count %d is not a multiple of 3, %d trailing indices dropped",
				ErrMalformedRecord, count, count%3))
	}
	return c.tris(faces, label)
}

func handleAnimBegin(c *parseContext, rec Record) error {
	c.firstCommand = false
	c.closeTable(rec)
	return c.beginAnim()
}

func handleAnimEnd(c *parseContext, rec Record) error {
	c.closeTable(rec)
	return c.endAnim()
}

func handleAnimTrans(c *parseContext, rec Record) error {
	kfs, err := parseTranslation(rec.Args)
	if err != nil {
		return err
	}
	return c.addKeyFrames(rec.Tag, kfs)
}

func handleAnimRotate(c *parseContext, rec Record) error {
	kfs, err := parseRotation(rec.Args)
	if err != nil {
		return err
	}
	return c.addKeyFrames(rec.Tag, kfs)
}

func handleAnimTransBegin(c *parseContext, rec Record) error {
	if len(rec.Args) != 1 {
		return malformed("ANIM_trans_begin <dataref>", rec.Args)
	}
	return c.beginTable(rec, KeyTranslation, rec.Args[0], math.Vec3{})
}

func handleAnimTransKey(c *parseContext, rec Record) error {
	kf, err := parseTransKey(rec.Args)
	if err != nil {
		return err
	}
	return c.tableKey(rec.Tag, KeyTranslation, kf)
}

func handleAnimRotateBegin(c *parseContext, rec Record) error {
	axis, dataref, err := parseRotateBegin(rec.Args)
	if err != nil {
		return err
	}
	return c.beginTable(rec, KeyRotation, dataref, axis)
}

func handleAnimRotateKey(c *parseContext, rec Record) error {
	kf, err := parseRotateKey(rec.Args)
	if err != nil {
		return err
	}
	return c.tableKey(rec.Tag, KeyRotation, kf)
}

func handleAnimHide(c *parseContext, rec Record) error {
	kfs, err := parseVisibility(KeyHide, rec.Tag, rec.Args)
	if err != nil {
		return err
	}
	return c.addKeyFrames(rec.Tag, kfs)
}

func handleAnimShow(c *parseContext, rec Record) error {
	kfs, err := parseVisibility(KeyShow, rec.Tag, rec.Args)
	if err != nil {
		return err
	}
	return c.addKeyFrames(rec.Tag, kfs)
}

func handleAnimLoop(c *parseContext, rec Record) error {
	var prev []KeyFrame
	if c.current != nil {
		prev = c.current.KeyFrames
	}
	kfs, err := parseLoop(rec.Args, prev)
	if err != nil {
		return err
	}
	return c.addKeyFrames(rec.Tag, kfs)
}
