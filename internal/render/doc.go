// Package render paints scenes.
//
// Rendering is split in two steps. [Marks] evaluates every element at a given
// elapsed time and produces one [Mark] per element: a resolved path in
// viewport pixels plus its paint (color, opacity, fill or stroke). [Frame]
// rasterizes a background gradient and those marks onto a gg drawing context.
// Other backends (SVG export, the terminal player) consume the same marks, so
// silhouettes stay identical across outputs.
//
// Frames are a pure function of (scene, elapsed seconds). Nothing is carried
// between frames, so any time value can be rendered directly.
package render
