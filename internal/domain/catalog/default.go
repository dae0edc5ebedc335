package catalog

// Default returns the built-in boss roster used when no catalog file is
// configured. Periods are in minutes.
func Default() []Entity {
	return []Entity{
		{Name: "小巴", PeriodMinutes: 4 * 60},
		{Name: "大巴", PeriodMinutes: 4 * 60},
		{Name: "四色", PeriodMinutes: 3 * 60},
		{Name: "單龍", PeriodMinutes: 6 * 60},
		{Name: "雙龍", PeriodMinutes: 6 * 60},
		{Name: "黑老", PeriodMinutes: 4 * 60, Aliases: []string{"黑長老"}},
		{Name: "克特", PeriodMinutes: 6 * 60},
		{Name: "變怪", PeriodMinutes: 6 * 60},
		{Name: "反王", PeriodMinutes: 6 * 60},
		{Name: "螞蟻", PeriodMinutes: 6 * 60},
		{Name: "死騎", PeriodMinutes: 6 * 60, Aliases: []string{"死亡騎士"}},
		{Name: "土", PeriodMinutes: 2 * 60, Aliases: []string{"土精"}},
		{Name: "風", PeriodMinutes: 2 * 60, Aliases: []string{"風精"}},
		{Name: "火", PeriodMinutes: 2 * 60, Aliases: []string{"火精"}},
		{Name: "水", PeriodMinutes: 2 * 60, Aliases: []string{"水精"}},
		{Name: "獨角獸", PeriodMinutes: 6 * 60, Aliases: []string{"獨角"}},
		{Name: "EF", PeriodMinutes: 3 * 60},
		{Name: "不死鳥", PeriodMinutes: 6 * 60, Aliases: []string{"鳳凰"}},
		{Name: "蜘蛛", PeriodMinutes: 6 * 60},
		{Name: "吸血鬼", PeriodMinutes: 6 * 60},
		{Name: "殭屍王", PeriodMinutes: 6 * 60},
		{Name: "艾莉絲", PeriodMinutes: 6 * 60},
		{Name: "牛", PeriodMinutes: 6 * 60},
		{Name: "惡魔", PeriodMinutes: 6 * 60},
	}
}
