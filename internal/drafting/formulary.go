package drafting

// Category is a condition group detected from free text.
type Category string

const (
	CategoryDigestive       Category = "digestive"
	CategoryRespiratory     Category = "respiratory"
	CategoryMusculoskeletal Category = "musculoskeletal"
	CategorySkin            Category = "skin"
	CategoryFever           Category = "fever"
	CategoryStress          Category = "stress"
	CategoryGynecological   Category = "gynecological"
	CategoryUrinary         Category = "urinary"
	CategoryGeneral         Category = "general"
	CategoryHeadache        Category = "headache"
	CategoryAcidity         Category = "acidity"
	CategoryDiabetes        Category = "diabetes"
)

type keywordSet struct {
	category Category
	keywords []string
}

// conditionKeywords is scanned in order; detection order follows it.
var conditionKeywords = []keywordSet{
	{CategoryDigestive, []string{"digestion", "gas", "bloating", "constipation", "diarrhea", "indigestion", "appetite", "stomach", "abdominal", "acidity", "flatulence", "ibs", "bowel"}},
	{CategoryRespiratory, []string{"cough", "cold", "bronchitis", "asthma", "wheeze", "phlegm", "mucus", "sinusitis", "breathlessness", "chest congestion", "throat", "sore throat"}},
	{CategoryMusculoskeletal, []string{"joint", "arthritis", "pain", "back pain", "knee", "shoulder", "muscle", "stiffness", "swelling", "rheumatoid", "osteo", "sciatica", "cervical", "spondylitis"}},
	{CategorySkin, []string{"skin", "eczema", "psoriasis", "acne", "rash", "itching", "dermatitis", "fungal", "urticaria", "boils", "wound"}},
	{CategoryFever, []string{"fever", "infection", "viral", "flu", "malaria", "typhoid", "temperature", "chills"}},
	{CategoryStress, []string{"stress", "anxiety", "insomnia", "sleep", "tension", "depression", "nervousness", "mental", "fatigue", "memory", "concentration"}},
	{CategoryGynecological, []string{"menstrual", "period", "pcod", "pcos", "leucorrhea", "menopause", "uterine", "ovarian", "dysmenorrhea", "amenorrhea", "irregular cycle"}},
	{CategoryUrinary, []string{"urine", "urinary", "kidney", "stone", "uti", "burning micturition", "prostate", "bladder", "renal"}},
	{CategoryGeneral, []string{"weakness", "fatigue", "immunity", "energy", "debility", "convalescence", "weight loss", "anemia", "general health"}},
	{CategoryHeadache, []string{"headache", "migraine", "head pain", "tension headache", "cluster headache"}},
	{CategoryAcidity, []string{"acidity", "heartburn", "gerd", "reflux", "hyperacidity", "ulcer"}},
	{CategoryDiabetes, []string{"diabetes", "sugar", "blood sugar", "glycemic", "prameha"}},
}

// Formulation is a reference preparation with its usual regimen.
type Formulation struct {
	Name      string
	Category  string
	Dose      string
	Frequency string
	Duration  int
}

var formulary = map[Category][]Formulation{
	CategoryDigestive: {
		{"Hingwashtak Churna", "churna", "3-5g", "twice daily", 15},
		{"Avipattikar Churna", "churna", "3-5g", "before meals", 21},
		{"Triphala Churna", "churna", "3-5g", "at bedtime", 30},
		{"Hingwashtak Vati", "tablet", "1-2 tablets", "after meals", 15},
		{"Abhayarishta", "asava", "15-30ml", "after meals", 30},
		{"Kutajarishta", "asava", "20ml", "after meals", 15},
	},
	CategoryRespiratory: {
		{"Sitopaladi Churna", "churna", "3g", "twice daily with honey", 14},
		{"Talisadi Churna", "churna", "3g", "twice daily", 14},
		{"Swasamrutham Syrup", "syrup", "10ml", "thrice daily", 14},
		{"Kantakari Avaleha", "others", "5-10g", "twice daily", 21},
		{"Vasavaleha", "others", "5-10g", "twice daily", 21},
	},
	CategoryMusculoskeletal: {
		{"Yograj Guggulu", "tablet", "2 tablets", "twice daily", 30},
		{"Kaishore Guggulu", "tablet", "2 tablets", "twice daily", 30},
		{"Mahanarayan Taila", "oil", "--", "external application", 30},
		{"Dhanwantharam Taila", "oil", "--", "external application", 30},
		{"Sahacharadi Taila", "oil", "--", "external application", 30},
	},
	CategorySkin: {
		{"Arogyavardhini Vati", "tablet", "2 tablets", "twice daily", 21},
		{"Kaishore Guggulu", "tablet", "2 tablets", "twice daily", 30},
	},
	CategoryFever: {
		{"Sudarshan Ghan Vati", "tablet", "2 tablets", "thrice daily", 7},
		{"Amritarishta", "asava", "20ml", "after meals", 14},
		{"Tribhuvan Kirti Rasa", "tablet", "125mg", "twice daily", 5},
		{"Giloy Ghan Vati", "tablet", "1 tablet", "twice daily", 15},
		{"Sanjeevani Vati", "tablet", "1 tablet", "twice daily", 7},
	},
	CategoryStress: {
		{"Brahmi Vati", "vati", "2 tablets", "twice daily", 30},
		{"Ashwagandha Churna", "churna", "3-5g", "with milk at bedtime", 30},
		{"Shankhpushpi Syrup", "syrup", "10ml", "twice daily", 30},
		{"Saraswatarishta", "arishta", "20ml", "after meals", 30},
		{"Jatamansi Churna", "churna", "1-2g", "at bedtime", 21},
	},
	CategoryGynecological: {
		{"Ashokarishta", "arishta", "20ml", "after meals", 30},
		{"Dashmool Kwath", "kwath", "30ml", "twice daily", 21},
		{"Pushyanug Churna", "churna", "3g", "twice daily with rice water", 21},
		{"Lodhra Churna", "churna", "3g", "twice daily", 21},
		{"Shatavari Churna", "churna", "3-5g", "with milk", 30},
	},
	CategoryUrinary: {
		{"Chandraprabha Vati", "vati", "2 tablets", "twice daily", 30},
		{"Gokshuradi Guggulu", "guggulu", "2 tablets", "twice daily", 21},
		{"Punarnavadi Kwath", "kwath", "30ml", "twice daily", 21},
		{"Shilajit Vati", "vati", "1 tablet", "twice daily", 30},
		{"Varuna Ghan Vati", "vati", "2 tablets", "twice daily", 21},
	},
	CategoryGeneral: {
		{"Chyawanprash", "syrup", "10g", "twice daily with milk", 30},
		{"Dashmoolarishta", "asava", "20ml", "after meals", 30},
		{"Balarishta", "asava", "20ml", "after meals", 30},
		{"Draksharishta", "asava", "20ml", "after meals", 30},
	},
	CategoryHeadache: {
		{"Pathyadi Kwath", "kwath", "30ml", "twice daily", 14},
		{"Shirashooladi Vajra Ras", "ras", "125mg", "twice daily", 14},
		{"Godanti Bhasma", "bhasma", "250mg", "twice daily with honey", 14},
		{"Brahmi Vati", "vati", "2 tablets", "twice daily", 21},
	},
	CategoryAcidity: {
		{"Avipattikar Churna", "churna", "3-5g", "before meals", 21},
		{"Kamdudha Ras", "ras", "250mg", "twice daily", 14},
		{"Praval Pishti", "pishti", "250mg", "twice daily", 21},
		{"Sutshekhar Ras", "ras", "125mg", "twice daily", 14},
	},
	CategoryDiabetes: {
		{"Chandraprabha Vati", "vati", "2 tablets", "twice daily", 30},
		{"Nishamalaki Churna", "churna", "3g", "at bedtime", 30},
		{"Gudmar Churna", "churna", "3g", "before meals", 30},
		{"Shilajit Vati", "vati", "1 tablet", "twice daily", 30},
	},
}
