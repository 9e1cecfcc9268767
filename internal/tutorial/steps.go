package tutorial

// Step - один шаг обучения
type Step struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	WaitTimeMs  int64  `json:"wait_time_ms,omitempty"` // авто-переход после паузы
	GrantTower  string `json:"grant_tower,omitempty"`
	GrantMoney  int64  `json:"grant_money,omitempty"`
	RewardGems  int64  `json:"reward_gems,omitempty"`
	RewardCoins int64  `json:"reward_coins,omitempty"`
}

// Steps is the fixed onboarding script, in order.
var Steps = []Step{
	{ID: "welcome", Title: "Welcome, Commander!", Text: "Let's learn how to defend your base.", RewardGems: 10},
	{ID: "show_path", Title: "The Enemy Path", Text: "Enemies march along this path toward your base."},
	{ID: "show_money", Title: "Your Resources", Text: "This is your money. Spend it on towers."},
	{ID: "open_tower_menu", Title: "Tower Menu", Text: "Open the tower menu to see what you can build."},
	{ID: "select_tower", Title: "Pick a Tower", Text: "Select the Pulse Cannon.", GrantTower: "pulse"},
	{ID: "place_tower", Title: "Place It", Text: "Place your tower near the path."},
	{ID: "start_wave", Title: "Start the Wave", Text: "Press start when you are ready."},
	{ID: "watch_combat", Title: "Watch", Text: "Your tower fights automatically.", WaitTimeMs: 5000},
	{ID: "earn_money", Title: "Earn Money", Text: "Every kill pays. Save up for upgrades.", GrantMoney: 200},
	{ID: "upgrade_tower", Title: "Upgrade", Text: "Tap your tower and upgrade it."},
	{ID: "complete", Title: "You're Ready!", Text: "Defend your base, Commander!", RewardGems: 50, RewardCoins: 1000},
}

// StepIndex returns the position of a step id, -1 when unknown.
func StepIndex(id string) int {
	for i, s := range Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}
