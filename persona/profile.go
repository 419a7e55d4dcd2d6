// Package persona 定义 16 种人格原型与主题类别的静态加权配置。
//
// 设计要点：
//   - 配置表在进程启动时构建，之后只读；不允许散落在打分逻辑里的
//     ad hoc 取值，未知 key 一律走显式的 fallback 函数
//   - 权重是产品启发式，不是金融模型；表中的数值本身就是契约
package persona

// Profile 是一种人格原型的基础倾向：四个打分因子上的带符号权重
// （约 [-1, 1]），加展示文案与偏好板块。
type Profile struct {
	Code       string // "INTJ" 等
	Momentum   float64
	Volatility float64
	Dividend   float64
	MarketCap  float64
	Desc       string
	Sectors    []string
}

// DefaultPersona 是未知人格的回退原型。
const DefaultPersona = "INTJ"

var profiles = map[string]Profile{
	// 분석가형 (Analysts)
	"INTJ": {Code: "INTJ", Volatility: -0.3, Desc: "용의주도한 전략가", Sectors: []string{"금융", "서비스", "반도체"}},
	"INTP": {Code: "INTP", Volatility: 0.2, Desc: "논리적인 사색가", Sectors: []string{"반도체", "IT", "전기전자", "의약품"}},
	"ENTJ": {Code: "ENTJ", Volatility: 0.5, MarketCap: 1.0, Desc: "대담한 통솔자", Sectors: []string{"금융", "자동차", "화학"}},
	"ENTP": {Code: "ENTP", Volatility: 0.9, Momentum: 0.8, Desc: "뜨거운 논쟁을 즐기는 변론가", Sectors: []string{"IT", "벤처", "기계"}},
	// 외교관형 (Diplomats)
	"INFJ": {Code: "INFJ", Volatility: -0.5, Desc: "선의의 옹호자", Sectors: []string{"의약품", "서비스업", "교육"}},
	"INFP": {Code: "INFP", Volatility: 0.0, Desc: "열정적인 중재자", Sectors: []string{"예술", "미디어", "섬유의복"}},
	"ENFJ": {Code: "ENFJ", Volatility: -0.2, Desc: "정의로운 사회운동가", Sectors: []string{"서비스업", "통신업", "환경"}},
	"ENFP": {Code: "ENFP", Volatility: 0.7, Momentum: 0.6, Desc: "재기발랄한 활동가", Sectors: []string{"엔터", "미디어", "여행", "유통"}},
	// 관리자형 (Sentinels)
	"ISTJ": {Code: "ISTJ", Volatility: -0.9, Dividend: 1.0, Desc: "청렴결백한 논리주의자", Sectors: []string{"금융업", "은행", "철강금속"}},
	"ISFJ": {Code: "ISFJ", Volatility: -0.8, Desc: "용감한 수호자", Sectors: []string{"음식료품", "보험", "유틸리티"}},
	"ESTJ": {Code: "ESTJ", Volatility: -0.5, Desc: "엄격한 관리자", Sectors: []string{"제조업", "건설업", "운수장비"}},
	"ESFJ": {Code: "ESFJ", Volatility: -0.4, Desc: "사교적인 외교관", Sectors: []string{"유통업", "소비재", "음식료"}},
	// 탐험가형 (Explorers)
	"ISTP": {Code: "ISTP", Volatility: 0.4, Desc: "만능 재주꾼", Sectors: []string{"기계", "전기전자", "건설"}},
	"ISFP": {Code: "ISFP", Volatility: 0.1, Desc: "호기심 많은 예술가", Sectors: []string{"섬유의복", "종이목재", "디자인"}},
	"ESTP": {Code: "ESTP", Volatility: 1.0, Momentum: 1.0, Desc: "모험을 즐기는 사업가", Sectors: []string{"증권", "건설업", "운수창고"}},
	"ESFP": {Code: "ESFP", Volatility: 0.6, Desc: "자유로운 영혼의 연예인", Sectors: []string{"오락", "문화", "호텔", "항공"}},
}

// All 返回全部 16 种人格代码（遍历批量训练时使用，顺序固定）。
func All() []string {
	return []string{
		"INTJ", "INTP", "ENTJ", "ENTP",
		"INFJ", "INFP", "ENFJ", "ENFP",
		"ISTJ", "ISFJ", "ESTJ", "ESFJ",
		"ISTP", "ISFP", "ESTP", "ESFP",
	}
}

// Lookup 按人格代码查找原型；未知代码回退到 DefaultPersona。
// 这是唯一的 fallback 入口，打分逻辑不做自己的缺省处理。
func Lookup(code string) Profile {
	if p, ok := profiles[normalize(code)]; ok {
		return p
	}
	return profiles[DefaultPersona]
}

// Known 判断人格代码是否在配置表内。
func Known(code string) bool {
	_, ok := profiles[normalize(code)]
	return ok
}

func normalize(code string) string {
	up := make([]byte, 0, len(code))
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		up = append(up, c)
	}
	return string(up)
}
