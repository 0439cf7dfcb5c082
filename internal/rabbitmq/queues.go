package rabbitmq

const (
	USER_FORGOT_PASSWORD_QUEUE = "user-forgot-password"
	FOLLOWS_QUEUE              = "follows"
)

var queues = []string{
	USER_FORGOT_PASSWORD_QUEUE,
	FOLLOWS_QUEUE,
}
