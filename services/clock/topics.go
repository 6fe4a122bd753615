package clock

import (
	"clocktree-go/bus"
	"clocktree-go/types"
)

func T(tokens ...bus.Token) bus.Topic { return bus.T(tokens...) }

// config/clock carries the rcc.Config to bring up, when not done at boot.
func topicConfigClock() bus.Topic { return T("config", "clock") }

// hal/clock/...
func topicBase() bus.Topic  { return T("hal", "clock") }
func topicInfo() bus.Topic  { return topicBase().Append("info") }
func topicState() bus.Topic { return topicBase().Append("state") }

// hal/clock/value/<domain>
func topicValue(d types.Domain) bus.Topic { return topicBase().Append("value", string(d)) }

// hal/clock/get/<domain>
func topicGet(d types.Domain) bus.Topic { return topicBase().Append("get", string(d)) }

// hal/clock/get/+
func getWildcard() bus.Topic { return topicBase().Append("get", "+") }

// Exported forms for other services and tools.
func InfoTopic() bus.Topic                { return topicInfo() }
func StateTopic() bus.Topic               { return topicState() }
func ValueTopic(d types.Domain) bus.Topic { return topicValue(d) }
func GetTopic(d types.Domain) bus.Topic   { return topicGet(d) }
func ConfigTopic() bus.Topic              { return topicConfigClock() }

