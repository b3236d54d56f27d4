package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/scene"
)

const (
	metadataFile = "metadata.json"
	elementsFile = "elements.csv"
	frameFile    = "frame.png"
)

var elementsHeader = []string{"index", "x", "y", "size", "drift", "angle", "color_index", "color", "shape"}

// Store keeps one directory per render under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Save(ctx context.Context, r Render, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.ID == "" {
		r.ID = NewID(r.Mood)
	}
	if !validID(r.ID) {
		return "", fmt.Errorf("invalid render id %q", r.ID)
	}
	dir := filepath.Join(s.baseDir, r.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), meta, 0644); err != nil {
		return "", err
	}
	if err := writeElements(filepath.Join(dir, elementsFile), r.Elements); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, frameFile), png, 0644); err != nil {
		return "", err
	}
	return r.ID, nil
}

func writeElements(path string, elements []scene.Element) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(elementsHeader); err != nil {
		return err
	}
	for _, el := range elements {
		row := []string{
			strconv.Itoa(el.Index),
			strconv.FormatFloat(el.X, 'f', 6, 64),
			strconv.FormatFloat(el.Y, 'f', 6, 64),
			strconv.FormatFloat(el.Size, 'f', 6, 64),
			strconv.FormatFloat(el.Drift, 'f', 6, 64),
			strconv.FormatFloat(el.Angle, 'f', 6, 64),
			strconv.Itoa(el.ColorIndex),
			el.Color.Hex(),
			el.Shape.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns saved renders, newest first.
func (s *Store) List(ctx context.Context) ([]Render, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Render{}, nil
		}
		return nil, err
	}

	renders := make([]Render, 0)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		r, err := s.readMeta(entry.Name())
		if err != nil {
			continue
		}
		renders = append(renders, r)
	}

	sort.SliceStable(renders, func(i, j int) bool {
		return renders[i].Timestamp.After(renders[j].Timestamp)
	})
	return renders, nil
}

// Load returns a render with its elements.
func (s *Store) Load(ctx context.Context, id string) (Render, error) {
	if err := ctx.Err(); err != nil {
		return Render{}, err
	}
	if !validID(id) {
		return Render{}, ErrNotFound
	}
	r, err := s.readMeta(id)
	if err != nil {
		return Render{}, err
	}
	r.Elements, err = readElements(filepath.Join(s.baseDir, id, elementsFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Render{}, err
	}
	return r, nil
}

func (s *Store) Image(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, frameFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *Store) readMeta(id string) (Render, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Render{}, ErrNotFound
		}
		return Render{}, err
	}
	var r Render
	if err := json.Unmarshal(data, &r); err != nil {
		return Render{}, fmt.Errorf("%s: %w", id, err)
	}
	return r, nil
}

func readElements(path string) ([]scene.Element, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []scene.Element{}, nil
	}

	elements := make([]scene.Element, 0, len(records)-1)
	for _, rec := range records[1:] {
		el, err := parseElement(rec)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, nil
}

func parseElement(rec []string) (scene.Element, error) {
	var el scene.Element
	if len(rec) != len(elementsHeader) {
		return el, fmt.Errorf("element row has %d fields, want %d", len(rec), len(elementsHeader))
	}
	var err error
	if el.Index, err = strconv.Atoi(rec[0]); err != nil {
		return el, err
	}
	floats := []*float64{&el.X, &el.Y, &el.Size, &el.Drift, &el.Angle}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(rec[1+i], 64); err != nil {
			return el, err
		}
	}
	if el.ColorIndex, err = strconv.Atoi(rec[6]); err != nil {
		return el, err
	}
	if el.Color, err = mood.ParseColor(rec[7]); err != nil {
		return el, err
	}
	if el.Shape, err = mood.ParseShapeKind(rec[8]); err != nil {
		return el, err
	}
	return el, nil
}
