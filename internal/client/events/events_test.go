package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voatnetwork/voat/internal/client/models"
)

func TestTopic_PublishInSubscriptionOrder(t *testing.T) {
	var topic Topic[int]
	var got []string

	topic.Subscribe(func(v int) { got = append(got, "a") })
	topic.Subscribe(func(v int) { got = append(got, "b") })

	n := topic.Publish(1)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestTopic_Unsubscribe(t *testing.T) {
	var topic Topic[string]
	calls := 0

	unsub := topic.Subscribe(func(string) { calls++ })
	topic.Publish("x")
	unsub()
	unsub()
	topic.Publish("y")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, topic.Subscribers())
}

func TestTopic_UnsubscribeFromCallback(t *testing.T) {
	var topic Topic[int]
	calls := 0
	var unsub func()
	unsub = topic.Subscribe(func(int) {
		calls++
		unsub()
	})

	topic.Publish(1)
	topic.Publish(2)
	assert.Equal(t, 1, calls)
}

func TestTopic_NoSubscribers(t *testing.T) {
	var topic Topic[int]
	assert.Equal(t, 0, topic.Publish(1))
}

func TestBus_TypedPayloads(t *testing.T) {
	bus := NewBus()

	var wl WishlistUpdated
	bus.WishlistUpdated.Subscribe(func(e WishlistUpdated) { wl = e })
	var login UserLoggedIn
	bus.UserLoggedIn.Subscribe(func(e UserLoggedIn) { login = e })

	bus.WishlistUpdated.Publish(WishlistUpdated{UserID: "1", Items: []models.WishlistItem{{ID: "a"}}, HasItems: true})
	bus.UserLoggedIn.Publish(UserLoggedIn{User: models.User{ID: "1", Name: "Jordan"}})

	require.True(t, wl.HasItems)
	assert.Equal(t, "a", string(wl.Items[0].ID))
	assert.Equal(t, "Jordan", login.User.Name)
}

func TestTopic_ConcurrentUse(t *testing.T) {
	var topic Topic[int]
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := topic.Subscribe(func(int) {})
			topic.Publish(1)
			unsub()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, topic.Subscribers())
}
