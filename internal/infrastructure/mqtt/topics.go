package mqtt

import "fmt"

// Topic prefixes.
const (
	// TopicPrefix is the root of every study-aid topic.
	TopicPrefix = "studyaid"

	// TopicPrefixEvents is the base for change events.
	TopicPrefixEvents = TopicPrefix + "/events"

	// TopicPrefixCommand is the base for commands addressed to the core.
	TopicPrefixCommand = TopicPrefix + "/command"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = TopicPrefix + "/system"
)

// Topics provides builders for study-aid MQTT topics.
//
//	topic := mqtt.Topics{}.Event(mqtt.EventUserCreated)
//	// Returns: "studyaid/events/user.created"
type Topics struct{}

// Event returns the topic for a change event of the given kind.
//
// Example: studyaid/events/reviewer.saved
func (Topics) Event(kind string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixEvents, kind)
}

// Command returns the topic for a named command.
//
// Example: studyaid/command/export
func (Topics) Command(name string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixCommand, name)
}

// SystemStatus returns the retained online/offline status topic.
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
