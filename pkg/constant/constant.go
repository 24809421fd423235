package constant

// Conversation kinds
const (
	ConvKindDirect  = 1 // One-to-one direct conversation
	ConvKindChannel = 2 // Named team/project channel
)

// Team member roles
const (
	RoleOwner   = "owner"
	RoleOffice  = "office"
	RoleForeman = "foreman"
	RoleCrew    = "crew"
)

// Agent message roles
const (
	AgentRoleUser      = "user"
	AgentRoleAssistant = "assistant"
	AgentRoleSystem    = "system"
)

// Agent hub thread categories
const (
	AgentCategoryGeneral    = "general"
	AgentCategoryEstimates  = "estimates"
	AgentCategoryScheduling = "scheduling"
	AgentCategoryMaterials  = "materials"
)

// Receive message options
const (
	RecvMsgOptNormal   = 0 // Normal receive
	RecvMsgOptNoNotify = 1 // Muted, no notification
)

// Online status
const (
	StatusOffline = 0
	StatusOnline  = 1
)

// Platform Ids
const (
	PlatformIdUnknown = 0
	PlatformIdIOS     = 1
	PlatformIdAndroid = 2
	PlatformIdWeb     = 3
)

// PlatformIdToName converts platform Id to name
func PlatformIdToName(platformId int) string {
	switch platformId {
	case PlatformIdIOS:
		return "iOS"
	case PlatformIdAndroid:
		return "Android"
	case PlatformIdWeb:
		return "Web"
	default:
		return "Unknown"
	}
}

// Conversation id conventions
const (
	// DirectViewPrefix prefixes the per-viewer id of a direct
	// conversation ("dm-<peerId>").
	DirectViewPrefix = "dm-"
	// DirectRowPrefix prefixes the stored pair id of a direct
	// conversation ("dm_<minUser>:<maxUser>").
	DirectRowPrefix = "dm_"
	// ProjectChannelPrefix marks channels that are tied to a project row.
	ProjectChannelPrefix = "project-"
	// DefaultChannel always exists even with zero messages.
	DefaultChannel = "general"
)

// Redis key patterns (without prefix, use the RedisKey getters for full keys)
const (
	redisKeyToken        = "token:%s:%d"           // token:{user_id}:{platform_id}
	redisKeyOnline       = "online:%s"             // online:{user_id}
	redisKeyLastRead     = "chat:last_read:%s:%s"  // chat:last_read:{user_id}:{conversation_id}
	redisKeyChatFlag     = "chat:%s:%s:%s"         // chat:{flag}:{user_id}:{conversation_id}
	redisKeyConvList     = "chat:convlist:%s"      // chat:convlist:{user_id}
	redisKeyChatEvents   = "chat:events"           // pub/sub channel for message inserts
)

// Per-conversation client flags stored under redisKeyChatFlag.
const (
	FlagMuted    = "muted"
	FlagPinned   = "pinned"
	FlagArchived = "archived"
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "westpeak:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyToken() string      { return redisKeyPrefix + redisKeyToken }
func RedisKeyOnline() string     { return redisKeyPrefix + redisKeyOnline }
func RedisKeyLastRead() string   { return redisKeyPrefix + redisKeyLastRead }
func RedisKeyChatFlag() string   { return redisKeyPrefix + redisKeyChatFlag }
func RedisKeyConvList() string   { return redisKeyPrefix + redisKeyConvList }
func RedisKeyChatEvents() string { return redisKeyPrefix + redisKeyChatEvents }
