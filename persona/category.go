package persona

// Modifier 是主题类别的加权配置。每个类别被当作一个独立的“投资人格”，
// 权重量级显著大于基础人格（打分时再乘放大系数），所以类别主导排序个性。
type Modifier struct {
	Category   string
	Momentum   float64
	Volatility float64
	Dividend   float64
	MarketCap  float64
	Sectors    []string // 偏好板块（子串匹配板块名或个股名）
	Avoid      []string // 回避板块（子串匹配板块名）
	Persona    string   // 推荐理由里使用的类别人格文案
}

// DefaultCategory 是未知类别的回退 key。
const DefaultCategory = "default"

var modifiers = map[string]Modifier{
	"가치 투자": {
		Category: "가치 투자", Dividend: 1.5, MarketCap: 0.5,
		Sectors: []string{"금융", "은행", "지주", "철강", "건설", "유통"},
		Avoid:   []string{"IT", "바이오", "게임", "엔터"},
		Persona: "현금 부자 전설의 자산가",
	},
	"장기 투자": {
		Category: "장기 투자", Volatility: -2.0, MarketCap: 2.5, Dividend: 1.0,
		Sectors: []string{"전자", "자동차", "반도체", "에너지"},
		Persona: "자식에게 물려줄 우량주 수집가",
	},
	"기술주": {
		Category: "기술주", Momentum: 1.2,
		Sectors: []string{"반도체", "IT", "소프트웨어", "로봇", "인공지능"},
		Persona: "미래를 여는 테크 덕후",
	},
	"고성장주": {
		Category: "고성장주", Momentum: 4.0, Volatility: 1.5, MarketCap: -1.0,
		Sectors: []string{"2차전지", "바이오", "전기차", "콘텐츠"},
		Persona: "내일의 텐배거를 찾는 모험가",
	},
	"배당 투자": {
		Category: "배당 투자", Dividend: 10.0, Volatility: -1.5,
		Sectors: []string{"금융", "통신", "유틸리티", "전력", "가스"},
		Persona: "매달 월세받는 배당 귀족",
	},
	"ESG 투자": {
		Category: "ESG 투자",
		Sectors: []string{"친환경", "풍력", "태양광", "신생", "수소"},
		Persona: "세상을 바꾸는 착한 투자자",
	},
	"단기 매매": {
		Category: "단기 매매", Momentum: 5.0, Volatility: 3.0,
		Sectors: []string{"테마", "급등", "이슈"},
		Persona: "차트와 혼연일체된 단타 고수",
	},
	"역발상 투자": {
		Category: "역발상 투자",
		Sectors: []string{"전통", "생활", "유통"},
		Persona: "모두가 '아니'라고 할 때 '예'를 외치는 고독한 늑대",
	},
	"안전 자산": {
		Category: "안전 자산", Volatility: -4.0, MarketCap: 1.0,
		Sectors: []string{"식품", "보험", "전기"},
		Persona: "내 돈은 소중해, 방어의 달인",
	},
	"글로벌 투자": {
		Category: "글로벌 투자", MarketCap: 3.0,
		Sectors: []string{"자동차", "반도체", "배", "물류"},
		Persona: "전세계를 누비는 거물",
	},
	"테마 투자": {
		Category: "테마 투자", Momentum: 3.0,
		Sectors: []string{"게임", "웹툰", "드라마", "여행"},
		Persona: "트렌드 최전방의 유행 선도자",
	},
	"고위험 고수익": {
		Category: "고위험 고수익", Volatility: 5.0, Momentum: 2.5,
		Sectors: []string{"바이오", "코스닥", "벤처"},
		Persona: "하이리스크 하이리턴, 인생은 한방",
	},
	DefaultCategory: {
		Category: DefaultCategory,
		Persona:  "일반 투자자",
	},
}

// LookupCategory 按类别名查找 Modifier；未知类别回退到 default（空权重）。
func LookupCategory(category string) Modifier {
	if m, ok := modifiers[category]; ok {
		return m
	}
	return modifiers[DefaultCategory]
}

// Categories 返回全部已配置的类别名（不含 default，顺序不保证）。
func Categories() []string {
	out := make([]string, 0, len(modifiers)-1)
	for k := range modifiers {
		if k == DefaultCategory {
			continue
		}
		out = append(out, k)
	}
	return out
}
