package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vec3 is a YAML triple such as [0, 1, 0].
type Vec3 [3]float32

// TransformDef places an entity. Rotation holds Euler angles in radians.
type TransformDef struct {
	Position Vec3  `yaml:"position"`
	Rotation Vec3  `yaml:"rotation"`
	Scale    *Vec3 `yaml:"scale"` // nil = [1,1,1]
}

type PointLightDef struct {
	Colour    Vec3     `yaml:"colour"`
	Intensity *float32 `yaml:"intensity"`
	FallOff   *float32 `yaml:"fall_off"`
}

type CameraDef struct {
	FovY  float32 `yaml:"fov_y"`
	ZNear float32 `yaml:"z_near"`
	ZFar  float32 `yaml:"z_far"`
}

type ControllerDef struct {
	MouseSpeed float32 `yaml:"mouse_speed"`
	MoveSpeed  float32 `yaml:"move_speed"`
}

// EntityDef is one entity of a scene manifest. Mesh attaches a bare mesh with
// renderer uniforms; Model attaches a full model bundle. At most one of them
// may be set.
type EntityDef struct {
	Name       string         `yaml:"name"`
	Transform  *TransformDef  `yaml:"transform"`
	Mesh       string         `yaml:"mesh"`
	Model      string         `yaml:"model"`
	PointLight *PointLightDef `yaml:"point_light"`
	Camera     *CameraDef     `yaml:"camera"`
	Controller *ControllerDef `yaml:"controller"`
	Behaviour  string         `yaml:"behaviour"`
	MainCamera bool           `yaml:"main_camera"`
}

// SceneManifest lists the entities a scene starts with.
type SceneManifest struct {
	Name     string      `yaml:"name"`
	Entities []EntityDef `yaml:"entities"`

	byName map[string]*EntityDef
}

// ErrInvalidManifest wraps every validation failure of a scene manifest.
var ErrInvalidManifest = errors.New("invalid scene manifest")

// LoadSceneManifest loads a scene YAML file.
func LoadSceneManifest(path string) (*SceneManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene manifest: %w", err)
	}
	return ParseSceneManifest(raw)
}

// ParseSceneManifest parses and validates manifest YAML.
func ParseSceneManifest(raw []byte) (*SceneManifest, error) {
	m := &SceneManifest{}
	if err := yaml.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("parse scene manifest: %w", err)
	}
	if err := m.index(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewSceneManifest validates a manifest built in code.
func NewSceneManifest(name string, entities []EntityDef) (*SceneManifest, error) {
	m := &SceneManifest{Name: name, Entities: entities}
	if err := m.index(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SceneManifest) index() error {
	m.byName = make(map[string]*EntityDef, len(m.Entities))
	cameras, mains := 0, 0
	for i := range m.Entities {
		e := &m.Entities[i]
		if e.Name == "" {
			return fmt.Errorf("%w: entity #%d has no name", ErrInvalidManifest, i)
		}
		if _, dup := m.byName[e.Name]; dup {
			return fmt.Errorf("%w: duplicate entity %q", ErrInvalidManifest, e.Name)
		}
		if e.Mesh != "" && e.Model != "" {
			return fmt.Errorf("%w: entity %q sets both mesh and model", ErrInvalidManifest, e.Name)
		}
		if e.Controller != nil && e.Camera == nil {
			return fmt.Errorf("%w: entity %q has a controller but no camera", ErrInvalidManifest, e.Name)
		}
		if e.Camera != nil {
			cameras++
			if e.MainCamera {
				mains++
			}
		} else if e.MainCamera {
			return fmt.Errorf("%w: main_camera set on %q, which has no camera", ErrInvalidManifest, e.Name)
		}
		m.byName[e.Name] = e
	}
	switch {
	case cameras == 0:
		return fmt.Errorf("%w: no camera entity", ErrInvalidManifest)
	case mains > 1:
		return fmt.Errorf("%w: %d entities marked main_camera", ErrInvalidManifest, mains)
	case cameras > 1 && mains == 0:
		return fmt.Errorf("%w: %d cameras and none marked main_camera", ErrInvalidManifest, cameras)
	}
	return nil
}

// MainCamera returns the entity rendered from.
func (m *SceneManifest) MainCamera() *EntityDef {
	var only *EntityDef
	for i := range m.Entities {
		e := &m.Entities[i]
		if e.Camera == nil {
			continue
		}
		if e.MainCamera {
			return e
		}
		only = e
	}
	return only
}

// Find returns the entity definition with the given name, or nil if none.
func (m *SceneManifest) Find(name string) *EntityDef {
	return m.byName[name]
}

// Count returns the number of entity definitions.
func (m *SceneManifest) Count() int {
	return len(m.Entities)
}
