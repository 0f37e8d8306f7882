package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/Faultbox/xpobj/pkg/xpobj"
)

// TreeOptions controls WriteTree.
type TreeOptions struct {
	Color     bool // honor the terminal's color profile
	KeyFrames bool // list keyframes under animation nodes
}

// palette maps node kinds to terminal colors.
var palette = map[xpobj.NodeKind]termenv.ANSIColor{
	xpobj.KindMesh:  termenv.ANSIGreen,
	xpobj.KindAnim:  termenv.ANSIYellow,
	xpobj.KindGroup: termenv.ANSIBlue,
}

// WriteTree prints the scene graph one node per line, indented by depth.
func WriteTree(w io.Writer, s *xpobj.Scene, opts TreeOptions) error {
	out := termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	if opts.Color {
		out = termenv.NewOutput(w)
	}

	tw := &treeWriter{w: w, out: out, points: &s.Points}
	tw.printf("%s\n", out.String(s.Name).Bold())

	s.Walk(func(n *xpobj.Node, depth int) bool {
		tw.node(n, depth+1, opts.KeyFrames)
		return true
	})
	return tw.err
}

type treeWriter struct {
	w      io.Writer
	out    *termenv.Output
	points *xpobj.PointTable
	err    error
}

func (tw *treeWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func (tw *treeWriter) node(n *xpobj.Node, depth int, keyframes bool) {
	indent := strings.Repeat("  ", depth)
	kind := tw.out.String(fmt.Sprintf("%-5s", n.Kind)).Foreground(palette[n.Kind])

	var detail []string
	if len(n.Faces) > 0 {
		detail = append(detail, fmt.Sprintf("%d faces", len(n.Faces)))
	}
	if len(n.KeyFrames) > 0 {
		detail = append(detail, fmt.Sprintf("%d keyframes", len(n.KeyFrames)))
	}
	for _, a := range n.Attributes {
		if len(a.Params) == 0 {
			detail = append(detail, a.Command)
		} else {
			detail = append(detail, a.Command+"="+strings.Join(a.Params, ","))
		}
	}

	line := indent + kind.String() + " " + n.Name
	if len(detail) > 0 {
		line += "  " + tw.out.String("["+strings.Join(detail, " ")+"]").Faint().String()
	}
	tw.printf("%s\n", line)

	if !keyframes {
		return
	}
	for _, kf := range n.KeyFrames {
		tw.printf("%s  %s\n", indent, describeKeyFrame(kf))
	}
}

func describeKeyFrame(kf xpobj.KeyFrame) string {
	switch kf.Type {
	case xpobj.KeyTranslation:
		return fmt.Sprintf("- %s %g -> (%g, %g, %g) %s", kf.Type, kf.Param,
			kf.Location.X, kf.Location.Y, kf.Location.Z, kf.Dataref)
	case xpobj.KeyRotation:
		return fmt.Sprintf("- %s %g -> %g deg about (%g, %g, %g) %s", kf.Type, kf.Param,
			kf.Angle, kf.Axis.X, kf.Axis.Y, kf.Axis.Z, kf.Dataref)
	case xpobj.KeyLoop:
		return fmt.Sprintf("- %s every %g %s", kf.Type, kf.Param, kf.Dataref)
	default:
		return fmt.Sprintf("- %s at %g %s", kf.Type, kf.Param, kf.Dataref)
	}
}
