package resolve

import (
	"context"
	"fmt"

	"github.com/chriswardell-glean/1password-actions/internal/connect"
	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
)

// fakeClient is an in-memory Connect server for resolver and orchestrator
// tests. Vaults and items can be changed between attempts, and errors can be
// scheduled per call to exercise the retry loop.
type fakeClient struct {
	vaults []connect.Vault
	// items is keyed by "<vaultID>/<title>"
	items map[string]*connect.Item

	// listErrs and itemErrs are consumed one per call; a nil entry means
	// the call succeeds.
	listErrs []error
	itemErrs map[string][]error

	listCalls int
	itemCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		items:    make(map[string]*connect.Item),
		itemErrs: make(map[string][]error),
	}
}

func (f *fakeClient) withVault(name, id string) *fakeClient {
	f.vaults = append(f.vaults, connect.Vault{ID: id, Name: name})
	return f
}

func (f *fakeClient) withItem(vaultID, title string, fields ...connect.ItemField) *fakeClient {
	f.items[vaultID+"/"+title] = &connect.Item{
		ID:     "item-" + title,
		Title:  title,
		Vault:  connect.ItemVault{ID: vaultID},
		Fields: fields,
	}
	return f
}

func (f *fakeClient) ListVaults(ctx context.Context) ([]connect.Vault, error) {
	f.listCalls++
	if len(f.listErrs) > 0 {
		err := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.vaults, nil
}

func (f *fakeClient) GetItemByTitle(ctx context.Context, vaultID, title string) (*connect.Item, error) {
	f.itemCalls++
	key := vaultID + "/" + title
	if errs := f.itemErrs[key]; len(errs) > 0 {
		err := errs[0]
		f.itemErrs[key] = errs[1:]
		if err != nil {
			return nil, err
		}
	}
	item, ok := f.items[key]
	if !ok {
		return nil, acterrors.SecretNotFoundError{Vault: vaultID, Item: title}
	}
	return item, nil
}

// fakeSink records emissions in order and can fail on demand.
type fakeSink struct {
	emitted []ResolvedOutput
	failOn  string
}

func (s *fakeSink) Emit(name, value string) error {
	if s.failOn != "" && name == s.failOn {
		return fmt.Errorf("sink write failed for %s", name)
	}
	s.emitted = append(s.emitted, ResolvedOutput{OutputName: name, Value: value})
	return nil
}

func field(label, value string) connect.ItemField {
	return connect.ItemField{ID: "f-" + label, Label: label, Value: value}
}
