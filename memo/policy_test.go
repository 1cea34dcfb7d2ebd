package memo

import (
	"testing"

	"github.com/photon-wallet/photon/directory"
	"github.com/photon-wallet/photon/resolver"
)

const destAccountID = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"

func TestDefaultState(t *testing.T) {
	p := NewPolicy()

	d := p.Decision()
	if d.Requirement != Optional {
		t.Errorf("requirement = %s, want optional", d.Requirement)
	}
	if d.Required() {
		t.Errorf("optional memo must not be required")
	}
	if !d.Editable {
		t.Errorf("optional memo must stay editable")
	}
}

func TestDirectoryMandatedMemo(t *testing.T) {
	p := NewPolicy()
	p.OnResolution(&resolver.DestinationResolution{AccountID: destAccountID})
	p.OnDirectoryRecord(&directory.Record{
		AccountID:   destAccountID,
		DisplayName: "Some Exchange",
		Tags:        []string{"exchange", directory.MemoRequiredTag},
	})

	d := p.Decision()
	if d.Requirement != RequiredByDirectory {
		t.Errorf("requirement = %s, want required by directory", d.Requirement)
	}
	if !d.Required() || !d.Editable {
		t.Errorf("directory-mandated memo must be required yet editable, got %+v", d)
	}
	if d.Value != "" {
		t.Errorf("directory mandate must not force a value, got %q", d.Value)
	}
}

func TestFederationMandatedMemo(t *testing.T) {
	p := NewPolicy()
	p.OnResolution(&resolver.DestinationResolution{
		AccountID:    destAccountID,
		MandatedMemo: &resolver.MandatedMemo{Type: resolver.MemoID, Value: "42"},
	})

	d := p.Decision()
	if d.Requirement != ForcedByFederation {
		t.Errorf("requirement = %s, want forced by federation", d.Requirement)
	}
	if d.Type != resolver.MemoID || d.Value != "42" {
		t.Errorf("decision = %+v, want forced id/42", d)
	}
	if d.Editable {
		t.Errorf("federation-mandated memo must not be editable")
	}
}

func TestFederationWinsOverDirectory(t *testing.T) {
	p := NewPolicy()
	p.OnResolution(&resolver.DestinationResolution{
		AccountID:    destAccountID,
		MandatedMemo: &resolver.MandatedMemo{Type: resolver.MemoText, Value: "invoice 7"},
	})
	p.OnDirectoryRecord(&directory.Record{
		AccountID: destAccountID,
		Tags:      []string{directory.MemoRequiredTag},
	})

	d := p.Decision()
	if d.Requirement != ForcedByFederation {
		t.Errorf("requirement = %s, want forced by federation (precedence)", d.Requirement)
	}
	if d.Type != resolver.MemoText || d.Value != "invoice 7" {
		t.Errorf("decision = %+v, want the federation values", d)
	}
}

func TestTransitionsFollowUpstreamChanges(t *testing.T) {
	p := NewPolicy()
	p.OnResolution(&resolver.DestinationResolution{
		AccountID:    destAccountID,
		MandatedMemo: &resolver.MandatedMemo{Type: resolver.MemoID, Value: "42"},
	})
	if p.Decision().Requirement != ForcedByFederation {
		t.Fatalf("expected forced state")
	}

	// destination edited to a plain account: back to default
	p.OnResolution(&resolver.DestinationResolution{AccountID: destAccountID})
	if got := p.Decision().Requirement; got != Optional {
		t.Errorf("after resolution change requirement = %s, want optional", got)
	}

	// directory record arrives later: directory state
	p.OnDirectoryRecord(&directory.Record{AccountID: destAccountID, Tags: []string{directory.MemoRequiredTag}})
	if got := p.Decision().Requirement; got != RequiredByDirectory {
		t.Errorf("after directory record requirement = %s, want required by directory", got)
	}

	// record cleared again
	p.OnDirectoryRecord(nil)
	if got := p.Decision().Requirement; got != Optional {
		t.Errorf("after record cleared requirement = %s, want optional", got)
	}
}
