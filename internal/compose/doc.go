// Package compose builds finished icons from a base image and its layers.
//
// A composition starts from a fully transparent canvas the size of the base
// image. Layers named by the task are drawn in order, later layers over
// earlier ones, grayscale masks recolored when the layer names a tint. The
// base image is drawn last so it always sits on top.
//
// # Failure Handling
//
// Nothing that goes wrong in one composition escapes it:
//   - base image missing: the asset is recorded as skipped, nothing is written
//   - layer file missing: the path is recorded for the asset, stacking goes on
//   - tint unparsable: the layer is drawn untinted
//   - save failure: reported in the Result
//
// # Thread Safety
//
// Compositor and Stacker hold no per-task state. Diagnostics may be shared by
// any number of goroutines. Canvases are never shared.
package compose
