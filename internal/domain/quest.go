package domain

// QuestType - тип действия, двигающего прогресс квеста
type QuestType string

const (
	QuestKills    QuestType = "kills"
	QuestWaves    QuestType = "waves"
	QuestTowers   QuestType = "towers"
	QuestMoney    QuestType = "money"
	QuestUpgrades QuestType = "upgrades"
	QuestBoss     QuestType = "boss"
	QuestPerfect  QuestType = "perfect"
	QuestResearch QuestType = "research"
)

// QuestReward - награда за квест
type QuestReward struct {
	Gems int64 `json:"gems"`
	XP   int64 `json:"xp"`
}

// QuestTemplate - шаблон ежедневного квеста
type QuestTemplate struct {
	Type        QuestType   `json:"type"`
	Target      int64       `json:"target"`
	Reward      QuestReward `json:"reward"`
	Description string      `json:"description"`
}

// QuestTemplates is the fixed pool daily quests are drawn from.
var QuestTemplates = []QuestTemplate{
	{Type: QuestKills, Target: 500, Reward: QuestReward{Gems: 10, XP: 100}, Description: "Defeat 500 enemies"},
	{Type: QuestWaves, Target: 10, Reward: QuestReward{Gems: 15, XP: 150}, Description: "Complete 10 waves"},
	{Type: QuestTowers, Target: 50, Reward: QuestReward{Gems: 5, XP: 50}, Description: "Build 50 towers"},
	{Type: QuestMoney, Target: 10000, Reward: QuestReward{Gems: 20, XP: 200}, Description: "Earn $10,000"},
	{Type: QuestUpgrades, Target: 20, Reward: QuestReward{Gems: 10, XP: 100}, Description: "Upgrade towers 20 times"},
	{Type: QuestBoss, Target: 1, Reward: QuestReward{Gems: 25, XP: 250}, Description: "Defeat 1 boss"},
	{Type: QuestPerfect, Target: 3, Reward: QuestReward{Gems: 30, XP: 300}, Description: "Complete 3 perfect waves"},
	{Type: QuestResearch, Target: 1, Reward: QuestReward{Gems: 15, XP: 150}, Description: "Upgrade research 1 time"},
}

// DailyQuest - квест с прогрессом игрока
type DailyQuest struct {
	ID          string      `json:"id"`
	Type        QuestType   `json:"type"`
	Target      int64       `json:"target"`
	Progress    int64       `json:"progress"`
	Completed   bool        `json:"completed"`
	Claimed     bool        `json:"claimed"`
	Reward      QuestReward `json:"reward"`
	Description string      `json:"description"`
}

// CanClaim проверяет, можно ли забрать награду
func (q *DailyQuest) CanClaim() bool {
	return q.Completed && !q.Claimed
}
