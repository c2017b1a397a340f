package stores

// Collection names shared across stores and backends.
const (
	CollectionUsers          = "users"
	CollectionFriends        = "friends"
	CollectionFriendRequests = "friendRequests"
	CollectionBlocks         = "blocks"
	CollectionNotifications  = "notifications"
	CollectionSettings       = "settings"
	CollectionPosts          = "posts"
	CollectionLocations      = "locations"
	CollectionComments       = "comments"
	CollectionLikes          = "likes"
	CollectionMessages       = "messages"
)
