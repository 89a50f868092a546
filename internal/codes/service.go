package codes

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finman-dev/finman/internal/model"
)

// FileName is the code table inside a project directory.
const FileName = "codes.csv"

type key struct {
	kind   model.Kind
	number int
}

// Service provides lookup over the income and outcome code tables.
type Service struct {
	codes []model.Code
	byKey map[key]model.Code
}

// NewService creates a Service from a slice of codes.
func NewService(codes []model.Code) *Service {
	byKey := make(map[key]model.Code, len(codes))
	for _, c := range codes {
		byKey[key{c.Kind, c.Number}] = c
	}
	return &Service{codes: codes, byKey: byKey}
}

// Load reads codes.csv from a project root.
func Load(root string) (*Service, error) {
	path := filepath.Join(root, FileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening codes: %w", err)
	}
	defer f.Close()

	codes, err := ReadCodes(f)
	if err != nil {
		return nil, fmt.Errorf("reading codes: %w", err)
	}
	return NewService(codes), nil
}

// All returns all codes.
func (s *Service) All() []model.Code {
	return s.codes
}

// Get returns a code by kind and number.
func (s *Service) Get(kind model.Kind, number int) (model.Code, bool) {
	c, ok := s.byKey[key{kind, number}]
	return c, ok
}

// Exists reports whether kind/number is a known code.
func (s *Service) Exists(kind model.Kind, number int) bool {
	_, ok := s.byKey[key{kind, number}]
	return ok
}

// ByKind returns the codes of one kind.
func (s *Service) ByKind(kind model.Kind) []model.Code {
	var result []model.Code
	for _, c := range s.codes {
		if c.Kind == kind {
			result = append(result, c)
		}
	}
	return result
}

// Save writes the code table to <root>/codes.csv.
func (s *Service) Save(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating project dir: %w", err)
	}

	f, err := os.Create(filepath.Join(root, FileName))
	if err != nil {
		return fmt.Errorf("creating codes file: %w", err)
	}
	defer f.Close()

	if err := WriteCodes(f, s.codes); err != nil {
		return fmt.Errorf("writing codes: %w", err)
	}
	return nil
}
