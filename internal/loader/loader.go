// Package loader turns model references into component.ModelData.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/primitive"
	"go.uber.org/zap"
)

// PrimitivePrefix selects a built-in mesh instead of a file.
const PrimitivePrefix = "primitive:"

// ErrUnsupportedFormat means no FormatLoader is registered for an extension.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// FormatLoader parses one model file format.
type FormatLoader interface {
	Load(path string) (component.ModelData, error)
}

// FormatLoaderFunc adapts a function to FormatLoader.
type FormatLoaderFunc func(path string) (component.ModelData, error)

func (f FormatLoaderFunc) Load(path string) (component.ModelData, error) { return f(path) }

// Loader dispatches model loads by file extension.
type Loader struct {
	root    string
	formats map[string]FormatLoader
	log     *zap.Logger
}

// New returns a Loader resolving relative paths against root.
func New(root string, log *zap.Logger) *Loader {
	return &Loader{
		root:    root,
		formats: make(map[string]FormatLoader),
		log:     log,
	}
}

// Register binds fl to an extension such as ".obj".
func (l *Loader) Register(ext string, fl FormatLoader) {
	l.formats[strings.ToLower(ext)] = fl
}

// Resolve returns the model with the given reference, or an error.
func (l *Loader) Resolve(ref string) (component.ModelData, error) {
	if name, ok := strings.CutPrefix(ref, PrimitivePrefix); ok {
		mesh, err := primitive.ByName(name)
		if err != nil {
			return component.ModelData{}, err
		}
		return component.ModelData{Mesh: mesh}, nil
	}
	ext := strings.ToLower(filepath.Ext(ref))
	fl, ok := l.formats[ext]
	if !ok {
		return component.ModelData{}, fmt.Errorf("load %s: %w", ref, ErrUnsupportedFormat)
	}
	path := ref
	if l.root != "" && !filepath.IsAbs(ref) {
		path = filepath.Join(l.root, ref)
	}
	model, err := fl.Load(path)
	if err != nil {
		return component.ModelData{}, fmt.Errorf("load %s: %w", path, err)
	}
	return model, nil
}

// LoadModel is Resolve without the error: failures are logged and yield an
// empty ModelData, which Director.AddBundle skips.
func (l *Loader) LoadModel(ref string) component.ModelData {
	model, err := l.Resolve(ref)
	if err != nil {
		l.log.Warn("model not loaded", zap.String("model", ref), zap.Error(err))
		return component.ModelData{}
	}
	if model.Empty() {
		l.log.Warn("model has no vertices", zap.String("model", ref))
	}
	return model
}
