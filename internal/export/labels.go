package export

import "lawdesk-platform/internal/documents"

// labelSet maps field keys to display labels for one locale.
// Unknown keys fall back to English, then to the raw key, so a new payload
// field never breaks rendering.
type labelSet struct {
	locale string
	byKey  map[string]string
}

func labelsFor(locale string) labelSet {
	if m, ok := labelTables[locale]; ok {
		return labelSet{locale: locale, byKey: m}
	}
	return labelSet{locale: "en", byKey: labelTables["en"]}
}

func (l labelSet) get(key string) string {
	if s, ok := l.byKey[key]; ok {
		return s
	}
	if s, ok := labelTables["en"][key]; ok {
		return s
	}
	return key
}

func (l labelSet) title(t documents.Type) string {
	if s, ok := l.byKey["type_"+string(t.Normalize())]; ok {
		return s
	}
	return string(t.Normalize())
}

var labelTables = map[string]map[string]string{
	"en": {
		"type_agreement":            "Settlement Agreement",
		"type_power_of_attorney":    "Power of Attorney",
		"type_attorney_appointment": "Attorney Appointment",
		"type_litigation_power":     "Litigation Power of Attorney",
		"type_insurance_consent":    "Insurance Information Consent",

		"name":    "Document",
		"date":    "Date",
		"version": "Version",

		"client_name":         "Client Name",
		"client_id_number":    "Client ID No.",
		"client_address":      "Client Address",
		"client_phone":        "Client Phone",
		"opponent_name":       "Opposing Party",
		"incident_date":       "Incident Date",
		"incident_location":   "Incident Location",
		"settlement_amount":   "Settlement Amount",
		"terms":               "Terms",
		"principal_name":      "Principal Name",
		"principal_id_number": "Principal ID No.",
		"principal_address":   "Principal Address",
		"attorney_name":       "Attorney",
		"court_name":          "Court",
		"court_case_number":   "Court Case No.",
		"scope_of_authority":  "Scope of Authority",
		"retainer_terms":      "Retainer Terms",
		"delegated_powers":    "Delegated Powers",
		"insurance_company":   "Insurance Company",
		"policy_number":       "Policy Number",
		"vehicle_number":      "Vehicle Number",
		"consent_scope":       "Scope of Consent",
	},
	"ko": {
		"type_agreement":            "합의서",
		"type_power_of_attorney":    "위임장",
		"type_attorney_appointment": "변호사 선임계",
		"type_litigation_power":     "소송위임장",
		"type_insurance_consent":    "보험정보 열람 동의서",

		"name":    "문서명",
		"date":    "작성일",
		"version": "버전",

		"client_name":         "의뢰인 성명",
		"client_id_number":    "주민등록번호",
		"client_address":      "의뢰인 주소",
		"client_phone":        "연락처",
		"opponent_name":       "상대방",
		"incident_date":       "사고 일자",
		"incident_location":   "사고 장소",
		"settlement_amount":   "합의 금액",
		"terms":               "합의 조건",
		"principal_name":      "위임인 성명",
		"principal_id_number": "위임인 주민등록번호",
		"principal_address":   "위임인 주소",
		"attorney_name":       "수임 변호사",
		"court_name":          "관할 법원",
		"court_case_number":   "사건번호",
		"scope_of_authority":  "위임 범위",
		"retainer_terms":      "선임 조건",
		"delegated_powers":    "위임 권한",
		"insurance_company":   "보험회사",
		"policy_number":       "증권번호",
		"vehicle_number":      "차량번호",
		"consent_scope":       "동의 범위",
	},
	"zh-CN": {
		"type_agreement":            "和解协议书",
		"type_power_of_attorney":    "授权委托书",
		"type_attorney_appointment": "律师选任书",
		"type_litigation_power":     "诉讼委托书",
		"type_insurance_consent":    "保险信息查询同意书",

		"name":    "文件名称",
		"date":    "日期",
		"version": "版本",

		"client_name":         "委托人姓名",
		"client_id_number":    "身份证号",
		"client_address":      "委托人地址",
		"client_phone":        "联系电话",
		"opponent_name":       "对方当事人",
		"incident_date":       "事故日期",
		"incident_location":   "事故地点",
		"settlement_amount":   "和解金额",
		"terms":               "和解条款",
		"principal_name":      "委托人姓名",
		"principal_id_number": "委托人身份证号",
		"principal_address":   "委托人地址",
		"attorney_name":       "受托律师",
		"court_name":          "管辖法院",
		"court_case_number":   "案件编号",
		"scope_of_authority":  "委托范围",
		"retainer_terms":      "委托条件",
		"delegated_powers":    "委托权限",
		"insurance_company":   "保险公司",
		"policy_number":       "保单号",
		"vehicle_number":      "车牌号",
		"consent_scope":       "同意范围",
	},
}
