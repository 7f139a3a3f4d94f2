// Package gridtext renders a terminal character grid with the GPU.
//
// # Overview
//
// An Engine owns a GPU device, a presentation target, a cell buffer with one
// record per grid position, and a glyph atlas. Every frame the whole cell
// buffer is uploaded and drawn by a single fullscreen triangle whose
// fragment stage looks each pixel up through the atlas.
//
// # Quick Start
//
//	e, err := gridtext.New(gridtext.WithCompositionTarget(1280, 800))
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	for {
//	    e.WaitUntilCanRender()
//	    if err := e.StartPaint(); err != nil {
//	        if gridtext.Classify(err) == gridtext.OutcomeRetry {
//	            continue
//	        }
//	        return err
//	    }
//	    e.UpdateDrawingBrushes(fg, bg, gridtext.Attributes{})
//	    e.PaintBufferLine(gridtext.ClustersFromString("hello"), image.Pt(0, 0))
//	    e.EndPaint()
//	    if err := e.Present(); gridtext.Classify(err) == gridtext.OutcomeFatal {
//	        return err
//	    }
//	}
//
// # Invalidation
//
// Mutation calls never rebuild anything. They mark resource groups stale
// (see Invalidations) and StartPaint rebuilds the stale groups in a fixed
// order: device and surface first, then the size dependent resources, then
// the font dependent ones. A device rebuild marks the other two stale.
//
// # Device Loss
//
// When the GPU device is lost every device resource is dropped and the call
// returns a *RetryError. The next StartPaint recreates everything.
//
// # Glyph Coverage
//
// The atlas holds code points 0 to 127 in four weight and style variants.
// Other code points are drawn as a blank cell.
package gridtext

// Version is the current version of the library.
const Version = "0.1.0"
