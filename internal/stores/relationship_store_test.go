package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/models"
)

func TestSendFriendRequestCreatesRequestAndNotification(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	if err := env.relationships.SendFriendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}

	req, err := env.relationships.Request(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if req.ID != "u1_u2" {
		t.Errorf("request id = %q, want u1_u2", req.ID)
	}
	if req.Status != models.FriendRequestPending {
		t.Errorf("status = %q, want pending", req.Status)
	}

	notifs, err := env.notifications.ListForReceiver(ctx, "u2")
	if err != nil {
		t.Fatalf("ListForReceiver failed: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("receiver has %d notifications, want 1", len(notifs))
	}
	n := notifs[0]
	if n.Type != models.NotificationFriendRequest || n.SenderID != "u1" || n.IsRead {
		t.Errorf("unexpected notification: %+v", n)
	}
	if n.Message != models.MsgFriendRequestSent {
		t.Errorf("message = %q, want the friend request template", n.Message)
	}
}

func TestSendFriendRequestOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	if err := env.relationships.SendFriendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	first, _ := env.relationships.Request(ctx, "u1", "u2")

	if err := env.relationships.SendFriendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("second send failed: %v", err)
	}
	second, err := env.relationships.Request(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if second.Status != models.FriendRequestPending {
		t.Errorf("status = %q, want pending", second.Status)
	}
	if second.Timestamp.Before(first.Timestamp) {
		t.Errorf("resend did not refresh the request timestamp")
	}
}

func TestAcceptFriendRequest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	if err := env.relationships.SendFriendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}
	if err := env.relationships.AcceptFriendRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}

	req, err := env.relationships.Request(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if req.Status != models.FriendRequestAccepted {
		t.Errorf("status = %q, want accepted", req.Status)
	}

	// Both friend lists must contain exactly the other uid
	for uid, friend := range map[string]string{"u1": "u2", "u2": "u1"} {
		ids, err := env.relationships.FriendIDs(ctx, uid)
		if err != nil {
			t.Fatalf("FriendIDs(%s) failed: %v", uid, err)
		}
		if len(ids) != 1 || ids[0] != friend {
			t.Errorf("friends of %s = %v, want [%s]", uid, ids, friend)
		}
	}

	// The sender gets an unread accepted notification from the receiver
	senderNotifs, _ := env.notifications.ListForReceiver(ctx, "u1")
	if len(senderNotifs) != 1 {
		t.Fatalf("sender has %d notifications, want 1", len(senderNotifs))
	}
	sn := senderNotifs[0]
	if sn.SenderID != "u2" || sn.Message != models.MsgFriendRequestAccepted || sn.IsRead {
		t.Errorf("unexpected sender notification: %+v", sn)
	}

	// The receiver's original notification is rewritten in place
	receiverNotifs, _ := env.notifications.ListForReceiver(ctx, "u2")
	if len(receiverNotifs) != 1 {
		t.Fatalf("receiver has %d notifications, want 1", len(receiverNotifs))
	}
	rn := receiverNotifs[0]
	if rn.Status != models.FriendRequestAccepted || rn.Message != models.MsgNowFriends {
		t.Errorf("original notification not rewritten: %+v", rn)
	}
}

func TestAcceptFriendRequestNotPending(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	// No request at all
	if err := env.relationships.AcceptFriendRequest(ctx, "u2", "u1"); !errors.Is(err, ErrRequestNotPending) {
		t.Errorf("err = %v, want ErrRequestNotPending", err)
	}

	// Already accepted
	env.relationships.SendFriendRequest(ctx, "u1", "u2")
	if err := env.relationships.AcceptFriendRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if err := env.relationships.AcceptFriendRequest(ctx, "u2", "u1"); !errors.Is(err, ErrRequestNotPending) {
		t.Errorf("second accept err = %v, want ErrRequestNotPending", err)
	}
}

func TestAcceptKeepsFriendListsAsSets(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	// u2 already has u1 in their list from an earlier partial accept
	if err := env.client.ArrayUnion(ctx, CollectionFriends, "u2", "friends", "u1"); err != nil {
		t.Fatalf("seed friend list: %v", err)
	}

	env.relationships.SendFriendRequest(ctx, "u1", "u2")
	if err := env.relationships.AcceptFriendRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}

	ids, _ := env.relationships.FriendIDs(ctx, "u2")
	if len(ids) != 1 {
		t.Errorf("friends of u2 = %v, want no duplicates", ids)
	}
}

func TestRemoveFriend(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")
	env.seedUser(t, "u3", "Carol", "carol")

	env.relationships.SendFriendRequest(ctx, "u1", "u2")
	env.relationships.AcceptFriendRequest(ctx, "u2", "u1")
	env.relationships.SendFriendRequest(ctx, "u3", "u1")
	env.relationships.AcceptFriendRequest(ctx, "u1", "u3")

	if err := env.relationships.RemoveFriend(ctx, "u1", "u2"); err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}

	u1Friends, _ := env.relationships.FriendIDs(ctx, "u1")
	if len(u1Friends) != 1 || u1Friends[0] != "u3" {
		t.Errorf("friends of u1 = %v, want [u3]", u1Friends)
	}
	u2Friends, _ := env.relationships.FriendIDs(ctx, "u2")
	if len(u2Friends) != 0 {
		t.Errorf("friends of u2 = %v, want empty", u2Friends)
	}
}

func TestRemoveFriendMalformedListAborts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	env.relationships.SendFriendRequest(ctx, "u1", "u2")
	env.relationships.AcceptFriendRequest(ctx, "u2", "u1")

	// Corrupt one side: friends becomes a string instead of an array
	if err := env.client.Set(ctx, CollectionFriends, "u2", docstore.Document{"friends": "u1"}); err != nil {
		t.Fatalf("corrupt friend list: %v", err)
	}

	err := env.relationships.RemoveFriend(ctx, "u1", "u2")
	if !errors.Is(err, ErrMalformedFriendList) {
		t.Fatalf("err = %v, want ErrMalformedFriendList", err)
	}

	// The healthy side must be untouched by the aborted transaction
	u1Friends, _ := env.relationships.FriendIDs(ctx, "u1")
	if len(u1Friends) != 1 || u1Friends[0] != "u2" {
		t.Errorf("friends of u1 = %v, want [u2] unchanged", u1Friends)
	}
}

func TestRemoveFriendMissingListAborts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	err := env.relationships.RemoveFriend(ctx, "u1", "u2")
	if !errors.Is(err, ErrMalformedFriendList) {
		t.Errorf("err = %v, want ErrMalformedFriendList", err)
	}
}

func TestDeleteFriendRequestRemovesNotifications(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	env.relationships.SendFriendRequest(ctx, "u1", "u2")
	if err := env.relationships.DeleteFriendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("DeleteFriendRequest failed: %v", err)
	}

	if _, err := env.relationships.Request(ctx, "u1", "u2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("request err = %v, want ErrNotFound", err)
	}
	notifs, _ := env.notifications.ListForReceiver(ctx, "u2")
	if len(notifs) != 0 {
		t.Errorf("receiver still has %d notifications after delete", len(notifs))
	}
}

func TestPendingRequestsFor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")
	env.seedUser(t, "u3", "Carol", "carol")

	env.relationships.SendFriendRequest(ctx, "u1", "u3")
	env.relationships.SendFriendRequest(ctx, "u2", "u3")
	env.relationships.SendFriendRequest(ctx, "u3", "u1") // outbound, must not appear

	pending, err := env.relationships.PendingRequestsFor(ctx, "u3")
	if err != nil {
		t.Fatalf("PendingRequestsFor failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending requests, want 2", len(pending))
	}
	senders := map[string]bool{}
	for _, r := range pending {
		senders[r.SenderID] = true
	}
	if !senders["u1"] || !senders["u2"] {
		t.Errorf("pending senders = %v, want u1 and u2", senders)
	}

	// Accepted requests drop out of the pending view
	env.relationships.AcceptFriendRequest(ctx, "u3", "u1")
	pending, _ = env.relationships.PendingRequestsFor(ctx, "u3")
	if len(pending) != 1 || pending[0].SenderID != "u2" {
		t.Errorf("pending after accept = %+v, want only u2", pending)
	}
}

func TestFriendsResolvesUsers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")
	env.seedUser(t, "u3", "Carol", "carol")

	env.relationships.SendFriendRequest(ctx, "u2", "u1")
	env.relationships.AcceptFriendRequest(ctx, "u1", "u2")
	env.relationships.SendFriendRequest(ctx, "u3", "u1")
	env.relationships.AcceptFriendRequest(ctx, "u1", "u3")

	friends, err := env.relationships.Friends(ctx, "u1")
	if err != nil {
		t.Fatalf("Friends failed: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("got %d friends, want 2", len(friends))
	}
	got := map[string]string{}
	for _, u := range friends {
		got[u.UID] = u.Username
	}
	if got["u2"] != "bob" || got["u3"] != "carol" {
		t.Errorf("resolved friends = %v", got)
	}
}

// End-to-end lifecycle: request, accept, verify both sides' views, unfriend.
func TestFriendshipLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	if err := env.relationships.SendFriendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("send: %v", err)
	}
	unread, _ := env.notifications.HasUnread(ctx, "u2")
	if !unread {
		t.Fatal("receiver should have an unread notification after send")
	}

	if err := env.relationships.AcceptFriendRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// The sender sees "accepted your friend request" rendered with the
	// receiver's display name
	senderNotifs, _ := env.notifications.ListForReceiver(ctx, "u1")
	enriched := env.notifications.Enrich(ctx, senderNotifs)
	if len(enriched) != 1 {
		t.Fatalf("sender has %d enriched notifications, want 1", len(enriched))
	}
	want := "Bob (@bob) accepted your friend request."
	if enriched[0].DisplayMessage != want {
		t.Errorf("display message = %q, want %q", enriched[0].DisplayMessage, want)
	}

	if err := env.relationships.RemoveFriend(ctx, "u1", "u2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	for _, uid := range []string{"u1", "u2"} {
		ids, _ := env.relationships.FriendIDs(ctx, uid)
		if len(ids) != 0 {
			t.Errorf("friends of %s = %v after unfriend, want empty", uid, ids)
		}
	}
}
