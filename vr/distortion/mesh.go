package distortion

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/vizorvr/webvr-boilerplate/common"
)

// DefaultTessellation is the default number of quads per axis for a single
// eye's grid.
const DefaultTessellation = 40

// centerMarkerRadius2 is the squared lens-centered radius inside which the
// center marker debug mode blows up the polynomial.
const centerMarkerRadius2 = 0.001

// centerMarkerPoly is the polynomial value substituted inside the marker
// radius, pushing the affected vertices far outside normal UV range so the
// distortion center is visually locatable.
const centerMarkerPoly = 10000

// Vertex is a single mesh vertex: a 3D position and a 2D texture coordinate.
// The memory layout matches the GPU vertex buffer layout (interleaved,
// 20 bytes per vertex).
type Vertex struct {
	// Position is the vertex position in presentation-plane coordinates.
	Position [3]float32

	// UV is the pre-warped texture coordinate into the shared two-eye texture.
	UV [2]float32
}

// MeshGeometry is the two-eye distortion mesh: a non-indexed triangle list in
// a fixed generation order. The first half of the vertices belongs to the
// left eye (UV.x in [0,0.5], position.x in [-1,0]) and the second half to the
// right eye (UV.x in [0.5,1], position.x in [0,1]). Replaced wholesale on
// every calibration change; never updated incrementally.
type MeshGeometry struct {
	// Vertices is the full triangle list, left-eye half first.
	Vertices []Vertex

	// Columns and Rows record the per-eye tessellation the mesh was built with.
	Columns int
	Rows    int
}

// VertexCount returns the total number of vertices across both eyes.
//
// Returns:
//   - int: the vertex count
func (g *MeshGeometry) VertexCount() int {
	return len(g.Vertices)
}

// VertexData returns the interleaved vertex data as a byte slice suitable for
// GPU vertex buffer upload. The slice shares memory with the geometry.
//
// Returns:
//   - []byte: byte view of the vertex array
func (g *MeshGeometry) VertexData() []byte {
	return common.SliceToBytes(g.Vertices)
}

// Distort applies the barrel-distortion pre-warp to a single point.
//
// The point is first unprojected into a lens-centered coordinate, scaled by
// the radial polynomial 1 + k1*r^2 + k2*r^4, and reprojected into the eye's
// compensated UV space. When showCenter is set and the point sits within the
// marker radius of the lens axis, the polynomial is forced to a huge constant
// instead; this is a debug aid for locating the distortion center, not
// physics.
//
// Parameters:
//   - v: the input point (screen-space UV)
//   - proj: the eye's distorted projection vector (scale-x, scale-y, offset-x, offset-y)
//   - unproj: the eye's unprojection vector, same packing
//   - coeffs: the (k1, k2) distortion coefficients
//   - showCenter: whether the center marker debug mode is active
//
// Returns:
//   - [2]float32: the pre-warped point
func Distort(v [2]float32, proj, unproj [4]float32, coeffs [2]float32, showCenter bool) [2]float32 {
	wx := (v[0] + unproj[2]) / unproj[0]
	wy := (v[1] + unproj[3]) / unproj[1]

	r2 := wx*wx + wy*wy
	poly := 1 + coeffs[0]*r2 + coeffs[1]*r2*r2
	if showCenter && r2 < centerMarkerRadius2 {
		poly = centerMarkerPoly
	}

	wx *= poly
	wy *= poly

	return [2]float32{
		proj[0]*wx - proj[2],
		proj[1]*wy - proj[3],
	}
}

// meshBuilderImpl is the implementation of the MeshBuilder interface.
type meshBuilderImpl struct {
	mu *sync.Mutex

	columns int
	rows    int

	showCenter bool

	// pool parallelizes the per-vertex transform across both eye halves.
	// Workers are reused across builds.
	workers int
	pool    worker.DynamicWorkerPool
}

// MeshBuilder produces the two-eye distortion mesh from calibration
// parameters. A builder always produces a fixed-topology mesh: the vertex
// count is constant across calls for a given tessellation. Building is a pure
// function of the calibration input and the builder's configuration.
type MeshBuilder interface {
	// Build constructs a new MeshGeometry from the given calibration.
	// The calibration is validated first; malformed input yields
	// ErrInvalidCalibration and no geometry.
	//
	// Parameters:
	//   - params: the left-eye calibration vectors and distortion coefficients
	//
	// Returns:
	//   - *MeshGeometry: the freshly built two-eye mesh
	//   - error: ErrInvalidCalibration (wrapped) if the calibration is malformed
	Build(params CalibrationParams) (*MeshGeometry, error)

	// Tessellation returns the per-eye grid dimensions in quads.
	//
	// Returns:
	//   - columns, rows: quads per axis for a single eye
	Tessellation() (columns, rows int)

	// ShowCenter reports whether the center marker debug mode is active.
	//
	// Returns:
	//   - bool: true if the marker is active
	ShowCenter() bool

	// SetShowCenter toggles the center marker debug mode. Takes effect on the
	// next Build call.
	//
	// Parameters:
	//   - show: whether to activate the marker
	SetShowCenter(show bool)
}

var _ MeshBuilder = &meshBuilderImpl{}

// NewMeshBuilder creates a MeshBuilder with the default 40x40 per-eye
// tessellation.
//
// Parameters:
//   - options: functional options to configure the builder
//
// Returns:
//   - MeshBuilder: the configured builder
func NewMeshBuilder(options ...MeshBuilderOption) MeshBuilder {
	b := &meshBuilderImpl{
		mu:      &sync.Mutex{},
		columns: DefaultTessellation,
		rows:    DefaultTessellation,
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(b)
	}
	b.pool = worker.NewDynamicWorkerPool(b.workers, 64, 1*time.Second)
	return b
}

func (b *meshBuilderImpl) Tessellation() (columns, rows int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.columns, b.rows
}

func (b *meshBuilderImpl) ShowCenter() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.showCenter
}

func (b *meshBuilderImpl) SetShowCenter(show bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.showCenter = show
}

func (b *meshBuilderImpl) Build(params CalibrationParams) (*MeshGeometry, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	columns, rows, showCenter := b.columns, b.rows, b.showCenter
	b.mu.Unlock()

	eyePositions, eyeUVs := planeGrid(columns, rows)
	n := len(eyeUVs)

	// Both eye halves start as byte-identical copies of the base grid; the
	// per-vertex transform below differentiates them.
	positions := make([][3]float32, 2*n)
	uvs := make([][2]float32, 2*n)
	copy(positions[:n], eyePositions)
	copy(positions[n:], eyePositions)
	copy(uvs[:n], eyeUVs)
	copy(uvs[n:], eyeUVs)

	projRight := params.RightProjection()
	unprojRight := params.RightUnprojection()

	transform := func(start, end int) {
		for i := start; i < end; i++ {
			isLeft := i < n

			proj, unproj := params.Projection, params.Unprojection
			if !isLeft {
				proj, unproj = projRight, unprojRight
			}

			t := Distort(uvs[i], proj, unproj, params.DistortionCoefficients, showCenter)
			if isLeft {
				uvs[i][0] = t[0] / 2
				positions[i][0] -= 0.5
			} else {
				uvs[i][0] = t[0]/2 + 0.5
				positions[i][0] += 0.5
			}
			uvs[i][1] = t[1]
		}
	}

	// Chunk the vertex range across the pool. A WaitGroup provides the join
	// barrier since pool.Wait blocks until workers idle-exit.
	var wg sync.WaitGroup
	total := 2 * n
	chunk := (total + b.workers - 1) / b.workers
	taskID := 0
	for start := 0; start < total; start += chunk {
		end := min(start+chunk, total)
		wg.Add(1)
		s, e := start, end
		id := taskID
		taskID++
		b.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				transform(s, e)
				return nil, nil
			},
		})
	}
	wg.Wait()

	vertices := make([]Vertex, 2*n)
	for i := range vertices {
		vertices[i] = Vertex{Position: positions[i], UV: uvs[i]}
	}

	return &MeshGeometry{
		Vertices: vertices,
		Columns:  columns,
		Rows:     rows,
	}, nil
}

// planeGrid generates the base single-eye mesh: a plane of width 1 and
// height 2, tessellated into columns x rows quads of two triangles each,
// non-indexed (each triangle's vertices stored consecutively). Positions span
// [-0.5,0.5] x [-1,1]; UVs span [0,1] x [0,1].
func planeGrid(columns, rows int) (positions [][3]float32, uvs [][2]float32) {
	count := columns * rows * 2 * 3
	positions = make([][3]float32, 0, count)
	uvs = make([][2]float32, 0, count)

	emit := func(u, v float32) {
		positions = append(positions, [3]float32{u - 0.5, v*2 - 1, 0})
		uvs = append(uvs, [2]float32{u, v})
	}

	for j := 0; j < rows; j++ {
		v0 := float32(j) / float32(rows)
		v1 := float32(j+1) / float32(rows)
		for i := 0; i < columns; i++ {
			u0 := float32(i) / float32(columns)
			u1 := float32(i+1) / float32(columns)

			// Two counter-clockwise triangles per quad.
			emit(u0, v0)
			emit(u1, v0)
			emit(u1, v1)

			emit(u0, v0)
			emit(u1, v1)
			emit(u0, v1)
		}
	}
	return positions, uvs
}
