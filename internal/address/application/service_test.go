package application

import (
	"context"
	"sync"
	"testing"

	"github.com/aegisgear/commerce/internal/address/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAddresses 内存地址仓储，保持「每用户至多一个默认地址」的语义
type memAddresses struct {
	mu        sync.Mutex
	addresses map[uint]*domain.Address
	nextID    uint
}

func newMemAddresses() *memAddresses {
	return &memAddresses{addresses: make(map[uint]*domain.Address)}
}

func (m *memAddresses) Save(ctx context.Context, address *domain.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if address.ID == 0 {
		m.nextID++
		address.ID = m.nextID
	}
	if address.IsDefault {
		for _, a := range m.addresses {
			if a.UserID == address.UserID && a.ID != address.ID {
				a.IsDefault = false
			}
		}
	}
	cp := *address
	m.addresses[address.ID] = &cp
	return nil
}

func (m *memAddresses) GetByIDForUser(ctx context.Context, id, userID uint) (*domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addresses[id]
	if !ok || a.UserID != userID {
		return nil, domain.ErrAddressNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAddresses) ListByUser(ctx context.Context, userID uint) ([]*domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Address
	for _, a := range m.addresses {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAddresses) Delete(ctx context.Context, id, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addresses[id]
	if !ok || a.UserID != userID {
		return domain.ErrAddressNotFound
	}
	delete(m.addresses, id)
	return nil
}

type noopTx struct{}

func (noopTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newAddressService() (*AddressService, *memAddresses) {
	repo := newMemAddresses()
	return NewAddressService(repo, noopTx{}), repo
}

func TestCreateAddress(t *testing.T) {
	service, _ := newAddressService()

	address, err := service.Create(context.Background(), 1, AddressCommand{
		FullName: "Jordan Reyes", Line1: "12 Ridge Road", City: "Austin", IsDefault: true,
	})
	require.NoError(t, err)

	assert.NotZero(t, address.ID)
	assert.Equal(t, uint(1), address.UserID)
	assert.True(t, address.IsDefault)
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	service, _ := newAddressService()

	first, err := service.Create(context.Background(), 1, AddressCommand{
		FullName: "Jordan Reyes", Line1: "12 Ridge Road", IsDefault: true,
	})
	require.NoError(t, err)

	second, err := service.Create(context.Background(), 1, AddressCommand{
		FullName: "Jordan Reyes", Line1: "99 Lake Drive", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	stored, err := service.Get(context.Background(), first.ID, 1)
	require.NoError(t, err)
	assert.False(t, stored.IsDefault, "previous default must be cleared")
}

func TestUpdateAddressScopesByOwner(t *testing.T) {
	service, _ := newAddressService()

	address, err := service.Create(context.Background(), 1, AddressCommand{
		FullName: "Jordan Reyes", Line1: "12 Ridge Road",
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), address.ID, 1, AddressCommand{
		FullName: "Jordan Reyes", Line1: "7 New Street", City: "Dallas",
	})
	require.NoError(t, err)
	assert.Equal(t, "7 New Street", updated.Line1)
	assert.Equal(t, "Dallas", updated.City)

	_, err = service.Update(context.Background(), address.ID, 2, AddressCommand{
		FullName: "Intruder", Line1: "0 Nowhere",
	})
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestDeleteAddress(t *testing.T) {
	service, _ := newAddressService()

	address, err := service.Create(context.Background(), 1, AddressCommand{
		FullName: "Jordan Reyes", Line1: "12 Ridge Road",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, service.Delete(context.Background(), address.ID, 2), domain.ErrAddressNotFound)
	require.NoError(t, service.Delete(context.Background(), address.ID, 1))
	assert.ErrorIs(t, service.Delete(context.Background(), address.ID, 1), domain.ErrAddressNotFound)
}

func TestListAddresses(t *testing.T) {
	service, _ := newAddressService()

	for _, line := range []string{"12 Ridge Road", "99 Lake Drive"} {
		_, err := service.Create(context.Background(), 1, AddressCommand{FullName: "Jordan Reyes", Line1: line})
		require.NoError(t, err)
	}
	_, err := service.Create(context.Background(), 2, AddressCommand{FullName: "Sam Okafor", Line1: "3 Hill Lane"})
	require.NoError(t, err)

	addresses, err := service.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, addresses, 2)
}
