package reply

// Допустимые действия, которые клиент умеет исполнять.
const (
	ActionOpenTab       = "open_tab"
	ActionOpenMap       = "open_map"
	ActionOpenChat      = "open_chat"
	ActionOpenAd        = "open_ad"
	ActionSearchService = "search_service"
	ActionStartPostAd   = "start_post_ad"
	ActionShowCategory  = "show_category"
	ActionShowMinPrice  = "show_min_price"
	ActionHelp          = "help"
	ActionNone          = "none"
)

// TargetNone: значение target по умолчанию.
const TargetNone = "none"

var allowedActions = map[string]struct{}{
	ActionOpenTab:       {},
	ActionOpenMap:       {},
	ActionOpenChat:      {},
	ActionOpenAd:        {},
	ActionSearchService: {},
	ActionStartPostAd:   {},
	ActionShowCategory:  {},
	ActionShowMinPrice:  {},
	ActionHelp:          {},
	ActionNone:          {},
}

// вкладки приложения (только для open_tab)
var allowedTabs = map[string]struct{}{
	"home":    {},
	"catalog": {},
	"map":     {},
	"chats":   {},
	"profile": {},
}

// Envelope — строгий контракт ответа ассистента.
type Envelope struct {
	Answer string `json:"answer"`
	Action string `json:"action"`
	Target string `json:"target"`
}

func IsAllowedAction(action string) bool {
	_, ok := allowedActions[action]
	return ok
}

func IsAllowedTab(tab string) bool {
	_, ok := allowedTabs[tab]
	return ok
}
