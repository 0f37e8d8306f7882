package xpobj

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/xpobj/pkg/math"
)

// outcome is the result of closing a node-producing scope.
type outcome struct {
	kind NodeKind
	node *Node
}

// keyTable is an open ANIM_trans_begin or ANIM_rotate_begin block. Its keys
// share one track on node.
type keyTable struct {
	node    *Node
	typ     KeyFrameType
	dataref string
	axis    math.Vec3 // rotation tables only
	track   int
}

// parseContext is the mutable state of a single parse. It is created per
// call and never shared.
type parseContext struct {
	scene *Scene
	log   *zap.Logger

	current *Node   // object under construction, nil when idle
	group   *Node   // open ####_group, if any
	stack   []*Node // suspended parents of nested ANIM_begin blocks
	label   string  // pending "#" label
	table   *keyTable

	firstCommand bool
	headerStage  int
}

func newParseContext(scene *Scene, log *zap.Logger) *parseContext {
	return &parseContext{scene: scene, log: log, firstCommand: true}
}

// report records a problem that made a record be skipped.
func (c *parseContext) report(rec Record, err error) {
	c.diagnose(rec, "record skipped", err)
}

// diagnose records a recovered problem and logs it with msg.
func (c *parseContext) diagnose(rec Record, msg string, err error) {
	d := Diagnostic{Line: rec.Line, Tag: rec.Tag, Err: err}
	c.scene.Diagnostics = append(c.scene.Diagnostics, d)
	c.log.Warn(msg,
		zap.Int("line", rec.Line),
		zap.String("tag", rec.Tag),
		zap.Error(err))
}

// reportEOF records a problem found after the last line.
func (c *parseContext) reportEOF(err error) {
	c.scene.Diagnostics = append(c.scene.Diagnostics, Diagnostic{Err: err})
	c.log.Warn("end of input", zap.Error(err))
}

// ensureCurrent opens a bare node if none is under construction.
func (c *parseContext) ensureCurrent() *Node {
	if c.current == nil {
		c.current = &Node{}
	}
	return c.current
}

// takeLabel returns the pending label and clears it.
func (c *parseContext) takeLabel() string {
	l := c.label
	c.label = ""
	return l
}

func withLabel(base, label string) string {
	if label == "" {
		return base
	}
	return base + "." + label
}

// emit attaches a finished root-level node to the open group or the scene.
func (c *parseContext) emit(o outcome) {
	switch o.kind {
	case KindNone:
		c.log.Debug("discarding empty object")
	case KindGroup:
		c.scene.Nodes = append(c.scene.Nodes, o.node)
		c.log.Debug("group closed", zap.String("name", o.node.Name), zap.Int("children", len(o.node.Children)))
	case KindMesh, KindAnim:
		if c.group != nil {
			c.group.appendChild(o.node)
		} else {
			c.scene.Nodes = append(c.scene.Nodes, o.node)
		}
	}
}

// openGroup closes any open group and starts a new one.
func (c *parseContext) openGroup(name string) {
	c.closeGroup()
	c.group = &Node{Kind: KindGroup, Name: name}
	c.log.Debug("group opened", zap.String("name", name))
}

func (c *parseContext) closeGroup() {
	if c.group == nil {
		return
	}
	c.emit(outcome{kind: KindGroup, node: c.group})
	c.group = nil
}

// beginAnim handles ANIM_begin.
func (c *parseContext) beginAnim() error {
	label := c.takeLabel()
	switch {
	case c.current == nil:
		c.current = &Node{Kind: KindAnim, Name: withLabel("anim", label)}
	case c.current.Kind == KindNone:
		c.current.Kind = KindAnim
		c.current.Name = withLabel("anim", label)
	case c.current.Kind == KindAnim:
		prefix := "anim."
		if label != "" {
			prefix += label + "."
		}
		child := &Node{
			Kind:       KindAnim,
			Name:       fmt.Sprintf("%s%03d", prefix, len(c.stack)+1),
			Attributes: cloneAttributes(c.current.Attributes),
		}
		c.stack = append(c.stack, c.current)
		c.current = child
	default:
		return fmt.Errorf("%w: ANIM_begin inside %s %q", ErrUnsupportedTarget, c.current.Kind, c.current.Name)
	}
	c.log.Debug("ANIM_begin", zap.String("name", c.current.Name), zap.Int("depth", len(c.stack)))
	return nil
}

// endAnim handles ANIM_end.
func (c *parseContext) endAnim() error {
	if c.current == nil || c.current.Kind != KindAnim {
		return fmt.Errorf("%w: ANIM_end without ANIM_begin", ErrUnbalancedAnim)
	}
	c.log.Debug("ANIM_end", zap.String("name", c.current.Name), zap.Int("depth", len(c.stack)))
	c.closeAnim()
	return nil
}

// closeAnim pops one animation scope. Nested scopes return to their parent;
// a root scope is emitted and the context goes idle.
func (c *parseContext) closeAnim() {
	child := c.current
	child.Origin, child.Pivot = origins(child.KeyFrames)
	if n := len(c.stack); n > 0 {
		parent := c.stack[n-1]
		c.stack = c.stack[:n-1]
		if child.HasData() {
			parent.appendChild(child)
		}
		c.current = parent
		return
	}
	c.emit(outcome{kind: child.Kind, node: child})
	c.current = nil
}

// tris handles TRIS with already resolved faces.
func (c *parseContext) tris(faces []Face, label string) error {
	cur := c.ensureCurrent()
	if cur.Kind == KindMesh {
		c.emit(outcome{kind: KindMesh, node: cur})
		cur = &Node{}
		c.current = cur
	}

	switch cur.Kind {
	case KindNone:
		cur.Kind = KindMesh
		cur.Name = withLabel("object", label)
		cur.Faces = faces
		c.emit(outcome{kind: KindMesh, node: cur})
		c.current = nil
	case KindAnim:
		child := &Node{
			Kind:       KindMesh,
			Name:       withLabel(fmt.Sprintf("object.%03d", len(cur.Children)), label),
			Attributes: cloneAttributes(cur.Attributes),
			Faces:      faces,
		}
		cur.appendChild(child)
	default:
		return fmt.Errorf("%w: TRIS inside %s %q", ErrUnsupportedTarget, cur.Kind, cur.Name)
	}
	c.log.Debug("TRIS", zap.Int("faces", len(faces)), zap.String("label", label))
	return nil
}

// animTarget returns the open animation node.
func (c *parseContext) animTarget(tag string) (*Node, error) {
	if c.current == nil || c.current.Kind != KindAnim {
		return nil, fmt.Errorf("%w: %s outside ANIM_begin", ErrUnsupportedTarget, tag)
	}
	return c.current, nil
}

// nextTrack returns the track number for the next keyframe record on n.
func nextTrack(n *Node) int {
	if k := len(n.KeyFrames); k > 0 {
		return n.KeyFrames[k-1].Track + 1
	}
	return 0
}

// addKeyFrames appends the keyframes of one record to the open animation
// node as a new track.
func (c *parseContext) addKeyFrames(tag string, kfs []KeyFrame) error {
	n, err := c.animTarget(tag)
	if err != nil {
		return err
	}
	track := nextTrack(n)
	for i := range kfs {
		kfs[i].Track = track
	}
	n.KeyFrames = append(n.KeyFrames, kfs...)
	return nil
}

// beginTable opens a keyframe table on the open animation node. A table
// still open is closed with a diagnostic first.
func (c *parseContext) beginTable(rec Record, typ KeyFrameType, dataref string, axis math.Vec3) error {
	n, err := c.animTarget(rec.Tag)
	if err != nil {
		return err
	}
	c.closeTable(rec)
	c.table = &keyTable{node: n, typ: typ, dataref: dataref, axis: axis, track: nextTrack(n)}
	c.log.Debug("table opened", zap.String("type", typ.String()), zap.String("dataref", dataref))
	return nil
}

// tableKey appends one key of the open table. kf carries the record fields.
func (c *parseContext) tableKey(tag string, typ KeyFrameType, kf KeyFrame) error {
	if c.table == nil || c.table.typ != typ {
		return fmt.Errorf("%w: %s outside its table", ErrUnbalancedAnim, tag)
	}
	kf.Type = typ
	kf.Dataref = c.table.dataref
	kf.Track = c.table.track
	if typ == KeyRotation {
		kf.Axis = c.table.axis
	}
	c.table.node.KeyFrames = append(c.table.node.KeyFrames, kf)
	return nil
}

// endTable handles ANIM_trans_end and ANIM_rotate_end.
func (c *parseContext) endTable(tag string, typ KeyFrameType) error {
	if c.table == nil {
		return fmt.Errorf("%w: %s without a table", ErrUnbalancedAnim, tag)
	}
	open := c.table.typ
	c.table = nil
	if open != typ {
		return fmt.Errorf("%w: %s closes a %s table", ErrUnbalancedAnim, tag, open)
	}
	return nil
}

// closeTable drops a table left open when rec starts a new scope. Its keys
// are kept.
func (c *parseContext) closeTable(rec Record) {
	if c.table == nil {
		return
	}
	c.diagnose(rec, "table not closed",
		fmt.Errorf("%w: %s table not closed before %s", ErrUnbalancedAnim, c.table.typ, rec.Tag))
	c.table = nil
}

// finish closes whatever is still open at end of input.
func (c *parseContext) finish() {
	if c.table != nil {
		c.reportEOF(fmt.Errorf("%w: %s table not closed", ErrUnbalancedAnim, c.table.typ))
		c.table = nil
	}
	for c.current != nil && c.current.Kind == KindAnim {
		c.reportEOF(fmt.Errorf("%w: %q not closed by ANIM_end", ErrUnbalancedAnim, c.current.Name))
		c.closeAnim()
	}
	if c.current != nil && len(c.current.Attributes) > 0 {
		c.log.Debug("trailing attributes without geometry", zap.Int("count", len(c.current.Attributes)))
	}
	c.current = nil
	c.closeGroup()
}
