package attributes

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/etapi"
)

// fakeStore counts attribute calls so tests can assert that invalid
// input never reaches the network.
type fakeStore struct {
	note *etapi.Note

	createCalls int
	updateCalls int
	deleteCalls int

	failCreateAt int // 1-based call number that fails; 0 = never
	nextID       int

	deletedIDs []string
}

func newFakeStore(attrs ...etapi.Attribute) *fakeStore {
	return &fakeStore{
		note: &etapi.Note{NoteID: "n1", Title: "n1", Type: "text", BlobID: "v1", Attributes: attrs},
	}
}

func (f *fakeStore) GetNote(ctx context.Context, noteID string) (*etapi.Note, error) {
	if noteID != f.note.NoteID {
		return nil, &etapi.StoreError{StatusCode: 404, Message: "note not found"}
	}
	cp := *f.note
	return &cp, nil
}

func (f *fakeStore) GetNoteContent(ctx context.Context, noteID string) (string, error) {
	return "", nil
}

func (f *fakeStore) CreateNote(ctx context.Context, params etapi.CreateNoteParams) (*etapi.Note, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) WriteContent(ctx context.Context, noteID, content string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeStore) CreateRevision(ctx context.Context, noteID string) error {
	return errors.New("not implemented")
}

func (f *fakeStore) SearchNotes(ctx context.Context, query string, limit int) ([]etapi.Note, error) {
	return nil, nil
}

func (f *fakeStore) CreateAttribute(ctx context.Context, attr etapi.Attribute) (*etapi.Attribute, error) {
	f.createCalls++
	if f.failCreateAt != 0 && f.createCalls == f.failCreateAt {
		return nil, &etapi.StoreError{StatusCode: 500, Message: "store exploded"}
	}
	f.nextID++
	attr.AttributeID = string(rune('a'+f.nextID-1)) + "-id"
	f.note.Attributes = append(f.note.Attributes, attr)
	return &attr, nil
}

func (f *fakeStore) UpdateAttribute(ctx context.Context, id string, patch etapi.AttributePatch) (*etapi.Attribute, error) {
	f.updateCalls++
	for i := range f.note.Attributes {
		if f.note.Attributes[i].AttributeID == id {
			if patch.Value != nil {
				f.note.Attributes[i].Value = *patch.Value
			}
			if patch.Position != nil {
				f.note.Attributes[i].Position = *patch.Position
			}
			cp := f.note.Attributes[i]
			return &cp, nil
		}
	}
	return nil, &etapi.StoreError{StatusCode: 404, Message: "attribute not found"}
}

func (f *fakeStore) DeleteAttribute(ctx context.Context, id string) error {
	f.deleteCalls++
	f.deletedIDs = append(f.deletedIDs, id)
	for i := range f.note.Attributes {
		if f.note.Attributes[i].AttributeID == id {
			f.note.Attributes = append(f.note.Attributes[:i], f.note.Attributes[i+1:]...)
			return nil
		}
	}
	return &etapi.StoreError{StatusCode: 404, Message: "attribute not found"}
}

var _ etapi.Store = (*fakeStore)(nil)

func newTestOrchestrator(f *fakeStore) *Orchestrator {
	return NewOrchestrator(f, zerolog.Nop())
}

// --- Spec validation ---

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{"valid label", Spec{Kind: KindLabel, Name: "archived"}, false},
		{"valid label with value", Spec{Kind: KindLabel, Name: "color", Value: "red"}, false},
		{"valid relation", Spec{Kind: KindRelation, Name: "template", Value: "Board"}, false},
		{"relation without value", Spec{Kind: KindRelation, Name: "template"}, true},
		{"relation with blank value", Spec{Kind: KindRelation, Name: "template", Value: "  "}, true},
		{"empty name", Spec{Kind: KindLabel, Name: ""}, true},
		{"name with space", Spec{Kind: KindLabel, Name: "my label"}, true},
		{"name with tab", Spec{Kind: KindLabel, Name: "a\tb"}, true},
		{"negative position", Spec{Kind: KindLabel, Name: "x", Position: -1}, true},
		{"bad kind", Spec{Kind: Kind("tag"), Name: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("err = %T, want *ValidationError", err)
				}
			}
		})
	}
}

// Position marks display order, not identity: duplicates are fine.
func TestSpec_DuplicatePositionsValid(t *testing.T) {
	specs := []Spec{
		{Kind: KindLabel, Name: "a", Position: 0},
		{Kind: KindLabel, Name: "b", Position: 0},
	}
	if err := ValidateAll(specs); err != nil {
		t.Errorf("duplicate positions should validate: %v", err)
	}
}

// --- Create / batch ---

func TestCreate_InvalidItemBlocksBatch_ZeroCalls(t *testing.T) {
	f := newFakeStore()
	o := newTestOrchestrator(f)

	specs := []Spec{
		{Kind: KindLabel, Name: "fine"},
		{Kind: KindRelation, Name: "template", Value: ""}, // invalid
		{Kind: KindLabel, Name: "also-fine"},
	}
	_, err := o.Create(context.Background(), "n1", specs)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if f.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0 — invalid batch must not start", f.createCalls)
	}
}

func TestCreate_OrderedExecution(t *testing.T) {
	f := newFakeStore()
	o := newTestOrchestrator(f)

	specs := []Spec{
		{Kind: KindLabel, Name: "first", Position: 0},
		{Kind: KindLabel, Name: "second", Position: 1},
		{Kind: KindRelation, Name: "third", Value: "target", Position: 2},
	}
	results, err := o.Create(context.Background(), "n1", specs)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("item %d failed: %v", i, r.Err)
		}
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
		if r.Attribute.Name != specs[i].Name {
			t.Errorf("result %d is %q, want %q — order must match the caller's", i, r.Attribute.Name, specs[i].Name)
		}
	}
}

func TestCreate_PartialFailure_NoRollback(t *testing.T) {
	f := newFakeStore()
	f.failCreateAt = 2
	o := newTestOrchestrator(f)

	specs := []Spec{
		{Kind: KindLabel, Name: "ok1"},
		{Kind: KindLabel, Name: "fails"},
		{Kind: KindLabel, Name: "ok2"},
	}
	results, err := o.Create(context.Background(), "n1", specs)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("items 0 and 2 should succeed: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("item 1 should report its failure")
	}
	if f.deleteCalls != 0 {
		t.Errorf("deleteCalls = %d, want 0 — no automatic rollback", f.deleteCalls)
	}
	// Prior successes stay in place.
	if len(f.note.Attributes) != 2 {
		t.Errorf("store has %d attributes, want 2", len(f.note.Attributes))
	}
}

func TestCreate_CancellationStopsFurtherCalls(t *testing.T) {
	f := newFakeStore()
	o := newTestOrchestrator(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := o.Create(ctx, "n1", []Spec{{Kind: KindLabel, Name: "never"}})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if f.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0 after cancellation", f.createCalls)
	}
}

// --- Read ---

func TestRead_FilterByKindAndName(t *testing.T) {
	f := newFakeStore(
		etapi.Attribute{AttributeID: "1", NoteID: "n1", Type: "label", Name: "archived"},
		etapi.Attribute{AttributeID: "2", NoteID: "n1", Type: "label", Name: "color", Value: "red"},
		etapi.Attribute{AttributeID: "3", NoteID: "n1", Type: "relation", Name: "template", Value: "Board"},
	)
	o := newTestOrchestrator(f)

	all, err := o.Read(context.Background(), "n1", Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered read = %d attrs, want 3", len(all))
	}

	labels, err := o.Read(context.Background(), "n1", Filter{Kind: KindLabel})
	if err != nil {
		t.Fatal(err)
	}
	if len(labels) != 2 {
		t.Errorf("label read = %d attrs, want 2", len(labels))
	}

	colored, err := o.Read(context.Background(), "n1", Filter{NamePattern: "^col"})
	if err != nil {
		t.Fatal(err)
	}
	if len(colored) != 1 || colored[0].Name != "color" {
		t.Errorf("pattern read = %+v, want just color", colored)
	}
}

func TestRead_BadPattern(t *testing.T) {
	o := newTestOrchestrator(newFakeStore())
	_, err := o.Read(context.Background(), "n1", Filter{NamePattern: "["})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

// --- Update ---

func TestUpdate_LabelValueAndPosition(t *testing.T) {
	f := newFakeStore(
		etapi.Attribute{AttributeID: "a1", NoteID: "n1", Type: "label", Name: "color", Value: "red", Position: 0},
	)
	o := newTestOrchestrator(f)

	v := "blue"
	p := 3
	updated, err := o.Update(context.Background(), "n1", "a1", etapi.AttributePatch{Value: &v, Position: &p})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Value != "blue" || updated.Position != 3 {
		t.Errorf("updated = %+v", updated)
	}
}

func TestUpdate_RelationValueRejected(t *testing.T) {
	f := newFakeStore(
		etapi.Attribute{AttributeID: "r1", NoteID: "n1", Type: "relation", Name: "template", Value: "Board"},
	)
	o := newTestOrchestrator(f)

	v := "Other"
	_, err := o.Update(context.Background(), "n1", "r1", etapi.AttributePatch{Value: &v})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if f.updateCalls != 0 {
		t.Errorf("updateCalls = %d, want 0", f.updateCalls)
	}
}

func TestUpdate_RelationPositionAllowed(t *testing.T) {
	f := newFakeStore(
		etapi.Attribute{AttributeID: "r1", NoteID: "n1", Type: "relation", Name: "template", Value: "Board"},
	)
	o := newTestOrchestrator(f)

	p := 5
	updated, err := o.Update(context.Background(), "n1", "r1", etapi.AttributePatch{Position: &p})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Position != 5 {
		t.Errorf("Position = %d, want 5", updated.Position)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	o := newTestOrchestrator(newFakeStore())
	_, err := o.Update(context.Background(), "n1", "missing", etapi.AttributePatch{})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

// --- Delete ---

func TestDeleteByName_TwoPhase(t *testing.T) {
	f := newFakeStore(
		etapi.Attribute{AttributeID: "a1", NoteID: "n1", Type: "label", Name: "archived"},
	)
	o := newTestOrchestrator(f)

	id, err := o.DeleteByName(context.Background(), "n1", "archived", KindLabel)
	if err != nil {
		t.Fatal(err)
	}
	if id != "a1" {
		t.Errorf("deleted id = %q, want a1", id)
	}
	if len(f.deletedIDs) != 1 || f.deletedIDs[0] != "a1" {
		t.Errorf("deletedIDs = %v", f.deletedIDs)
	}
}

func TestResolveIdentifier_KindMatters(t *testing.T) {
	f := newFakeStore(
		etapi.Attribute{AttributeID: "a1", NoteID: "n1", Type: "label", Name: "template"},
	)
	o := newTestOrchestrator(f)

	// Same name, wrong kind: resolution fails without touching delete.
	_, err := o.ResolveIdentifier(context.Background(), "n1", "template", KindRelation)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if f.deleteCalls != 0 {
		t.Errorf("deleteCalls = %d, want 0 — resolution failure must not delete", f.deleteCalls)
	}
}

func TestDelete_ByID(t *testing.T) {
	f := newFakeStore(
		etapi.Attribute{AttributeID: "a1", NoteID: "n1", Type: "label", Name: "x"},
	)
	o := newTestOrchestrator(f)

	if err := o.Delete(context.Background(), "n1", "a1"); err != nil {
		t.Fatal(err)
	}
	if len(f.note.Attributes) != 0 {
		t.Errorf("attribute not removed: %+v", f.note.Attributes)
	}
}

func TestDelete_MissingID(t *testing.T) {
	o := newTestOrchestrator(newFakeStore())
	err := o.Delete(context.Background(), "n1", "nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}
