package kernel

// DomainEvent is raised by an aggregate and published once the unit of work that changed it commits.
type DomainEvent interface {
	EventName() string
	AggregateID() UUID
}
