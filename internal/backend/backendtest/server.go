// Package backendtest provides an in-memory GraphQL backend for tests. It implements
// every operation the backend package posts, counts calls per operation and can be told
// to fail operations.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/schoolfees/internal/backend"
	"github.com/mmynk/schoolfees/internal/models"
)

type request struct {
	Query         string          `json:"query"`
	Variables     json.RawMessage `json:"variables"`
	OperationName string          `json:"operationName"`
}

type failure struct {
	call    int // 0 fails every call
	message string
	status  int
}

// Server is a fake GraphQL backend.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	buckets       []models.FeeBucket
	structures    []backend.StructureNode
	gradeLevels   []models.GradeLevel
	grades        []models.Grade
	terms         map[string]models.Term
	academicYears map[string]string
	invoices      []models.Invoice
	calls         map[string]int
	failures      map[string][]failure
	headers       http.Header
	nextID        int
	clock         time.Time
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		terms:         make(map[string]models.Term),
		academicYears: make(map[string]string),
		calls:         make(map[string]int),
		failures:      make(map[string][]failure),
		clock:         time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// AddBucket seeds a fee bucket.
func (s *Server) AddBucket(b models.FeeBucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = append(s.buckets, b)
}

// AddTerm seeds a term so structures created with its id carry its name.
func (s *Server) AddTerm(t models.Term) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[t.ID] = t
}

// AddAcademicYear seeds an academic year name.
func (s *Server) AddAcademicYear(y models.AcademicYear) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.academicYears[y.ID] = y.Name
}

// AddGradeLevel seeds the grade level catalogue.
func (s *Server) AddGradeLevel(gl models.GradeLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gradeLevels = append(s.gradeLevels, gl)
}

// AddGrade seeds a grade.
func (s *Server) AddGrade(g models.Grade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grades = append(s.grades, g)
}

// AddStructure seeds a physical fee structure.
func (s *Server) AddStructure(fs models.FeeStructure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.structures = append(s.structures, toNode(fs))
}

// Fail makes every call of op fail with a GraphQL error.
func (s *Server) Fail(op, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], failure{message: message})
}

// FailCall makes only the n-th call (1-based) of op fail with a GraphQL error.
func (s *Server) FailCall(op string, n int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], failure{call: n, message: message})
}

// FailStatus makes every call of op answer with the HTTP status.
func (s *Server) FailStatus(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], failure{status: status})
}

// Calls returns how many times op was posted.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// TotalCalls returns how many operations were posted.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// LastHeader returns the headers of the most recent request.
func (s *Server) LastHeader() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers.Clone()
}

// Buckets returns the stored buckets.
func (s *Server) Buckets() []models.FeeBucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.buckets)
}

// Structures returns the stored structures.
func (s *Server) Structures() []models.FeeStructure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FeeStructure, len(s.structures))
	for i, n := range s.structures {
		out[i] = n.ToModel()
	}
	return out
}

// Grade returns the stored grade with the id.
func (s *Server) Grade(id string) (models.Grade, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.grades {
		if g.ID == id {
			return g, true
		}
	}
	return models.Grade{}, false
}

// Invoices returns every invoice generated so far.
func (s *Server) Invoices() []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.invoices)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []map[string]string{{"message": "invalid request body"}}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.headers = r.Header.Clone()
	s.calls[req.OperationName]++
	call := s.calls[req.OperationName]

	for _, f := range s.failures[req.OperationName] {
		if f.call != 0 && f.call != call {
			continue
		}
		if f.status != 0 {
			writeJSON(w, f.status, map[string]any{})
			return
		}
		writeErrors(w, f.message)
		return
	}

	data, err := s.dispatch(req)
	if err != nil {
		writeErrors(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) dispatch(req request) (map[string]any, error) {
	switch req.OperationName {
	case backend.OpListFeeBuckets:
		return map[string]any{"feeBuckets": s.buckets}, nil

	case backend.OpCreateFeeBucket:
		var vars struct {
			Input backend.BucketInput `json:"input"`
		}
		if err := json.Unmarshal(req.Variables, &vars); err != nil {
			return nil, err
		}
		b := models.FeeBucket{ID: s.id("fb"), Name: vars.Input.Name, Description: vars.Input.Description, IsActive: true}
		s.buckets = append(s.buckets, b)
		return map[string]any{"createFeeBucket": b}, nil

	case backend.OpListFeeStructures:
		return map[string]any{"feeStructures": s.structures}, nil

	case backend.OpCreateFeeStructure:
		var vars struct {
			Input backend.StructureInput `json:"input"`
		}
		if err := json.Unmarshal(req.Variables, &vars); err != nil {
			return nil, err
		}
		n := s.createStructure(vars.Input)
		return map[string]any{"createFeeStructure": n}, nil

	case backend.OpUpdateFeeStructure:
		var vars struct {
			ID    string                       `json:"id"`
			Input backend.StructureUpdateInput `json:"input"`
		}
		if err := json.Unmarshal(req.Variables, &vars); err != nil {
			return nil, err
		}
		n, err := s.updateStructure(vars.ID, vars.Input)
		if err != nil {
			return nil, err
		}
		return map[string]any{"updateFeeStructure": n}, nil

	case backend.OpDeleteFeeStructure:
		var vars struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(req.Variables, &vars); err != nil {
			return nil, err
		}
		before := len(s.structures)
		s.structures = slices.DeleteFunc(s.structures, func(n backend.StructureNode) bool { return n.ID == vars.ID })
		return map[string]any{"deleteFeeStructure": len(s.structures) < before}, nil

	case backend.OpListGradeLevelsForSchoolType:
		return map[string]any{"gradeLevelsForSchoolType": s.gradeLevels}, nil

	case backend.OpListGrades:
		return map[string]any{"grades": s.grades}, nil

	case backend.OpAssignFeeStructureToGrades:
		var vars struct {
			FeeStructureID string   `json:"feeStructureId"`
			GradeIDs       []string `json:"gradeIds"`
		}
		if err := json.Unmarshal(req.Variables, &vars); err != nil {
			return nil, err
		}
		for _, id := range vars.GradeIDs {
			i := slices.IndexFunc(s.grades, func(g models.Grade) bool { return g.ID == id })
			if i < 0 {
				return nil, fmt.Errorf("grade %s not found", id)
			}
			s.grades[i].FeeStructureID = vars.FeeStructureID
		}
		return map[string]any{"assignFeeStructureToGrades": models.AssignmentResult{
			FeeStructureID: vars.FeeStructureID,
			GradeIDs:       vars.GradeIDs,
			Success:        true,
			Message:        fmt.Sprintf("assigned to %d grades", len(vars.GradeIDs)),
		}}, nil

	case backend.OpGenerateBulkInvoices:
		var vars struct {
			Input backend.InvoiceBatchInput `json:"input"`
		}
		if err := json.Unmarshal(req.Variables, &vars); err != nil {
			return nil, err
		}
		return map[string]any{"generateBulkInvoices": s.generateInvoices(vars.Input)}, nil
	}
	return nil, fmt.Errorf("unknown operation %q", req.OperationName)
}

func (s *Server) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *Server) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Server) createStructure(in backend.StructureInput) backend.StructureNode {
	now := s.tick()
	n := backend.StructureNode{
		ID:           s.id("fs"),
		Name:         in.Name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		AcademicYear: backend.Ref{ID: in.AcademicYearID, Name: s.academicYears[in.AcademicYearID]},
		Terms:        s.resolveTerms(in.TermIDs),
	}
	for _, id := range in.GradeLevelIDs {
		gl := models.GradeLevel{ID: id}
		if i := slices.IndexFunc(s.gradeLevels, func(g models.GradeLevel) bool { return g.ID == id }); i >= 0 {
			gl = s.gradeLevels[i]
		}
		n.GradeLevels = append(n.GradeLevels, gl)
	}
	for _, it := range in.Items {
		n.Items = append(n.Items, backend.ItemNode{
			ID:          s.id("fsi"),
			Amount:      it.Amount,
			IsMandatory: it.IsMandatory,
			FeeBucket:   backend.Ref{ID: it.FeeBucketID, Name: s.bucketName(it.FeeBucketID)},
		})
	}
	s.structures = append(s.structures, n)
	return n
}

func (s *Server) updateStructure(id string, u models.FeeStructureUpdate) (backend.StructureNode, error) {
	i := slices.IndexFunc(s.structures, func(n backend.StructureNode) bool { return n.ID == id })
	if i < 0 {
		return backend.StructureNode{}, fmt.Errorf("fee structure %s not found", id)
	}
	n := &s.structures[i]
	if u.Name != nil {
		n.Name = *u.Name
	}
	if u.IsActive != nil {
		n.IsActive = *u.IsActive
	}
	if u.AcademicYearID != nil {
		n.AcademicYear = backend.Ref{ID: *u.AcademicYearID, Name: s.academicYears[*u.AcademicYearID]}
	}
	if u.TermIDs != nil {
		n.Terms = s.resolveTerms(u.TermIDs)
	}
	n.UpdatedAt = s.tick()
	return *n, nil
}

func (s *Server) generateInvoices(in models.InvoiceBatchInput) []models.Invoice {
	var out []models.Invoice
	for _, gradeID := range in.GradeIDs {
		i := slices.IndexFunc(s.grades, func(g models.Grade) bool { return g.ID == gradeID })
		if i < 0 {
			continue
		}
		for n := 1; n <= s.grades[i].StudentCount; n++ {
			out = append(out, models.Invoice{
				ID:             s.id("inv"),
				StudentID:      fmt.Sprintf("%s-student-%d", gradeID, n),
				GradeID:        gradeID,
				FeeStructureID: in.FeeStructureID,
				Term:           in.Term,
				TotalAmount:    in.AmountPerStudent,
				GenerateDate:   in.GenerateDate,
				DueDate:        in.DueDate,
				CustomMessage:  in.CustomMessage,
				Lines:          in.Lines,
			})
		}
	}
	s.invoices = append(s.invoices, out...)
	return out
}

func (s *Server) resolveTerms(ids []string) []models.Term {
	terms := make([]models.Term, len(ids))
	for i, id := range ids {
		t, ok := s.terms[id]
		if !ok {
			t = models.Term{ID: id, Name: id}
		}
		terms[i] = t
	}
	return terms
}

func (s *Server) bucketName(id string) string {
	for _, b := range s.buckets {
		if b.ID == id {
			return b.Name
		}
	}
	return ""
}

func toNode(fs models.FeeStructure) backend.StructureNode {
	n := backend.StructureNode{
		ID:           fs.ID,
		Name:         fs.Name,
		IsActive:     fs.IsActive,
		CreatedAt:    fs.CreatedAt,
		UpdatedAt:    fs.UpdatedAt,
		AcademicYear: backend.Ref{ID: fs.AcademicYearID, Name: fs.AcademicYearName},
		Terms:        fs.Terms,
		GradeLevels:  fs.GradeLevels,
	}
	for _, it := range fs.Items {
		n.Items = append(n.Items, backend.ItemNode{
			ID:          it.ID,
			Amount:      it.Amount,
			IsMandatory: it.IsMandatory,
			FeeBucket:   backend.Ref{ID: it.FeeBucketID, Name: it.FeeBucketName},
		})
	}
	return n
}

func writeErrors(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data":   nil,
		"errors": []map[string]string{{"message": message}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
