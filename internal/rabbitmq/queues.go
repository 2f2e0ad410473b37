package rabbitmq

const (
	POSTS_CREATED_QUEUE  = "posts.created"
	POSTS_DELETED_QUEUE  = "posts.deleted"
	POSTS_REACTED_QUEUE  = "posts.reacted"
	POSTS_APPROVED_QUEUE = "posts.approved"
	USERS_DELETED_QUEUE  = "users.deleted"
)

var Queues = []string{
	POSTS_CREATED_QUEUE,
	POSTS_DELETED_QUEUE,
	POSTS_REACTED_QUEUE,
	POSTS_APPROVED_QUEUE,
	USERS_DELETED_QUEUE,
}
