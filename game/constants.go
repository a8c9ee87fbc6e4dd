package game

// Entity type tags. Every record in the table carries one.
const (
	TypeGame         = "GAME"
	TypeCharacter    = "CHARACTER"
	TypeFirefly      = "FIREFLY"
	TypeShip         = "SHIP"
	TypeSection      = "SECTION"
	TypeSettings     = "SETTINGS"
	TypeTemplate     = "TEMPLATE"
	TypeDiceRoll     = "DICEROLL"
	TypeNotification = "NOTIFICATION"
)

// Key prefixes for the single-table layout.
const (
	PrefixGame         = "GAME"
	PrefixPlayer       = "PLAYER"
	PrefixSection      = "SECTION"
	PrefixSettings     = "SETTINGS"
	PrefixTemplate     = "TEMPLATE"
	PrefixRoll         = "ROLL"
	PrefixNotification = "NOTIFICATION"
	PrefixJoin         = "JOIN"
	PrefixUser         = "USER"
	PrefixSectionUser  = "SECTIONUSER"
)

const (
	DefaultFireflyCharacterName = "Firefly"
	DefaultPlayerCharacterName  = "Unnamed Character"
)

func GamePK(gameID string) string     { return PrefixGame + "#" + gameID }
func GameSK() string                  { return PrefixGame }
func PlayerSK(userID string) string   { return PrefixPlayer + "#" + userID }
func SectionSK(sectionID string) string { return PrefixSection + "#" + sectionID }

func SettingsPK(userID string) string { return PrefixSettings + "#" + userID }
func SettingsSK() string              { return PrefixSettings + "#" }

func TemplatePK(gameType, language string) string { return PrefixTemplate + "#" + gameType + "#" + language }
func TemplateSK(name string) string               { return PrefixTemplate + "#" + name }

func RollSK(rollID string) string { return PrefixRoll + "#" + rollID }

func NotificationPK() string { return PrefixNotification + "#SYSTEM" }
func NotificationSK() string { return PrefixNotification + "#" }

// GSI1 partition keys.
func JoinGSI1(joinCode string) string       { return PrefixJoin + "#" + joinCode }
func UserGSI1(userID string) string         { return PrefixUser + "#" + userID }
func SectionUserGSI1(userID string) string  { return PrefixSectionUser + "#" + userID }
