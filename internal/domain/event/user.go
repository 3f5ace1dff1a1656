package event

const UserEventType = "UserEvent"

type UserEvent struct {
	Mutation
}

func (e *UserEvent) EventType() string {
	return UserEventType
}

func (e *UserEvent) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
