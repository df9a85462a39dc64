package kafka

// TopicAudit is the topic audit events are published to.
const TopicAudit = "sahaay.audit.events"
