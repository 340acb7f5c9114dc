// Package scene holds the presentation scene: a minimal scene graph whose
// only entity is the two-eye distortion mesh, textured with the offscreen
// frame.
package scene

import (
	"sync"

	"github.com/vizorvr/webvr-boilerplate/vr/distortion"
	"github.com/vizorvr/webvr-boilerplate/vr/renderer"
)

// meshEntity adapts a distortion mesh plus its source texture to the
// renderer's Drawable interface.
type meshEntity struct {
	geometry *distortion.MeshGeometry
	texture  renderer.RenderTarget
}

var _ renderer.Drawable = &meshEntity{}

func (e *meshEntity) VertexData() []byte {
	if e.geometry == nil {
		return nil
	}
	return e.geometry.VertexData()
}

func (e *meshEntity) VertexCount() int {
	if e.geometry == nil {
		return 0
	}
	return e.geometry.VertexCount()
}

func (e *meshEntity) Texture() renderer.RenderTarget {
	return e.texture
}

// presentationSceneImpl is the implementation of the PresentationScene
// interface.
type presentationSceneImpl struct {
	mu *sync.Mutex

	entity *meshEntity
}

// PresentationScene is the scene the captured frame is presented through. It
// contains exactly one entity, the distortion mesh, whose geometry is swapped
// wholesale on calibration changes and whose texture is swapped on resize.
type PresentationScene interface {
	renderer.Scene

	// SetMesh replaces the distortion mesh geometry. The old geometry is
	// simply dropped; meshes are never updated in place.
	//
	// Parameters:
	//   - geometry: the new two-eye mesh
	SetMesh(geometry *distortion.MeshGeometry)

	// Mesh returns the current mesh geometry, or nil if none has been set.
	//
	// Returns:
	//   - *distortion.MeshGeometry: the current mesh
	Mesh() *distortion.MeshGeometry

	// SetTexture replaces the render target the mesh samples from.
	//
	// Parameters:
	//   - texture: the offscreen target holding the captured frame
	SetTexture(texture renderer.RenderTarget)
}

var _ PresentationScene = &presentationSceneImpl{}

// NewPresentationScene creates an empty presentation scene. The mesh and
// texture are attached later, once calibration and the offscreen target
// exist.
//
// Returns:
//   - PresentationScene: the scene
func NewPresentationScene() PresentationScene {
	return &presentationSceneImpl{
		mu:     &sync.Mutex{},
		entity: &meshEntity{},
	}
}

func (s *presentationSceneImpl) Drawables() []renderer.Drawable {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entity.geometry == nil {
		return nil
	}
	return []renderer.Drawable{s.entity}
}

func (s *presentationSceneImpl) SetMesh(geometry *distortion.MeshGeometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entity.geometry = geometry
}

func (s *presentationSceneImpl) Mesh() *distortion.MeshGeometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entity.geometry
}

func (s *presentationSceneImpl) SetTexture(texture renderer.RenderTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entity.texture = texture
}
