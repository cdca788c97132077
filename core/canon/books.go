package canon

// BookKey identifies one of the 66 books of the Protestant canon.
type BookKey string

// Book keys in canonical order.
const (
	Genesis         BookKey = "Genesis"
	Exodus          BookKey = "Exodus"
	Leviticus       BookKey = "Leviticus"
	Numbers         BookKey = "Numbers"
	Deuteronomy     BookKey = "Deuteronomy"
	Joshua          BookKey = "Joshua"
	Judges          BookKey = "Judges"
	Ruth            BookKey = "Ruth"
	ISamuel         BookKey = "ISamuel"
	IISamuel        BookKey = "IISamuel"
	IKings          BookKey = "IKings"
	IIKings         BookKey = "IIKings"
	IChronicles     BookKey = "IChronicles"
	IIChronicles    BookKey = "IIChronicles"
	Ezra            BookKey = "Ezra"
	Nehemiah        BookKey = "Nehemiah"
	Esther          BookKey = "Esther"
	Job             BookKey = "Job"
	Psalms          BookKey = "Psalms"
	Proverbs        BookKey = "Proverbs"
	Ecclesiastes    BookKey = "Ecclesiastes"
	SongOfSolomon   BookKey = "SongOfSolomon"
	Isaiah          BookKey = "Isaiah"
	Jeremiah        BookKey = "Jeremiah"
	Lamentations    BookKey = "Lamentations"
	Ezekiel         BookKey = "Ezekiel"
	Daniel          BookKey = "Daniel"
	Hosea           BookKey = "Hosea"
	Joel            BookKey = "Joel"
	Amos            BookKey = "Amos"
	Obadiah         BookKey = "Obadiah"
	Jonah           BookKey = "Jonah"
	Micah           BookKey = "Micah"
	Nahum           BookKey = "Nahum"
	Habakkuk        BookKey = "Habakkuk"
	Zephaniah       BookKey = "Zephaniah"
	Haggai          BookKey = "Haggai"
	Zechariah       BookKey = "Zechariah"
	Malachi         BookKey = "Malachi"
	Matthew         BookKey = "Matthew"
	Mark            BookKey = "Mark"
	Luke            BookKey = "Luke"
	John            BookKey = "John"
	Acts            BookKey = "Acts"
	Romans          BookKey = "Romans"
	ICorinthians    BookKey = "ICorinthians"
	IICorinthians   BookKey = "IICorinthians"
	Galatians       BookKey = "Galatians"
	Ephesians       BookKey = "Ephesians"
	Philippians     BookKey = "Philippians"
	Colossians      BookKey = "Colossians"
	IThessalonians  BookKey = "IThessalonians"
	IIThessalonians BookKey = "IIThessalonians"
	ITimothy        BookKey = "ITimothy"
	IITimothy       BookKey = "IITimothy"
	Titus           BookKey = "Titus"
	Philemon        BookKey = "Philemon"
	Hebrews         BookKey = "Hebrews"
	James           BookKey = "James"
	IPeter          BookKey = "IPeter"
	IIPeter         BookKey = "IIPeter"
	IJohn           BookKey = "IJohn"
	IIJohn          BookKey = "IIJohn"
	IIIJohn         BookKey = "IIIJohn"
	Jude            BookKey = "Jude"
	Revelation      BookKey = "Revelation"
)

// koreanTable is the 개역개정 naming table: display name, abbreviation and
// OSIS book id for every key, in canonical order.
var koreanTable = []Entry{
	{Genesis, "창세기", "창", "Gen"},
	{Exodus, "출애굽기", "출", "Exod"},
	{Leviticus, "레위기", "레", "Lev"},
	{Numbers, "민수기", "민", "Num"},
	{Deuteronomy, "신명기", "신", "Deut"},
	{Joshua, "여호수아", "수", "Josh"},
	{Judges, "사사기", "삿", "Judg"},
	{Ruth, "룻기", "룻", "Ruth"},
	{ISamuel, "사무엘상", "삼상", "1Sam"},
	{IISamuel, "사무엘하", "삼하", "2Sam"},
	{IKings, "열왕기상", "왕상", "1Kgs"},
	{IIKings, "열왕기하", "왕하", "2Kgs"},
	{IChronicles, "역대상", "대상", "1Chr"},
	{IIChronicles, "역대하", "대하", "2Chr"},
	{Ezra, "에스라", "라", "Ezra"},
	{Nehemiah, "느헤미야", "느", "Neh"},
	{Esther, "에스더", "더", "Esth"},
	{Job, "욥기", "욥", "Job"},
	{Psalms, "시편", "시", "Ps"},
	{Proverbs, "잠언", "잠", "Prov"},
	{Ecclesiastes, "전도서", "전", "Eccl"},
	{SongOfSolomon, "아가", "아", "Song"},
	{Isaiah, "이사야", "사", "Isa"},
	{Jeremiah, "예레미야", "렘", "Jer"},
	{Lamentations, "예레미야애가", "애", "Lam"},
	{Ezekiel, "에스겔", "겔", "Ezek"},
	{Daniel, "다니엘", "단", "Dan"},
	{Hosea, "호세아", "호", "Hos"},
	{Joel, "요엘", "욜", "Joel"},
	{Amos, "아모스", "암", "Amos"},
	{Obadiah, "오바댜", "옵", "Obad"},
	{Jonah, "요나", "욘", "Jonah"},
	{Micah, "미가", "미", "Mic"},
	{Nahum, "나홈", "나", "Nah"},
	{Habakkuk, "하박국", "합", "Hab"},
	{Zephaniah, "스바냐", "습", "Zeph"},
	{Haggai, "학개", "학", "Hag"},
	{Zechariah, "스가랴", "슥", "Zech"},
	{Malachi, "말라기", "말", "Mal"},
	{Matthew, "마태복음", "마", "Matt"},
	{Mark, "마가복음", "막", "Mark"},
	{Luke, "누가복음", "눅", "Luke"},
	{John, "요한복음", "요", "John"},
	{Acts, "사도행전", "행", "Acts"},
	{Romans, "로마서", "롬", "Rom"},
	{ICorinthians, "고린도전서", "고전", "1Cor"},
	{IICorinthians, "고린도후서", "고후", "2Cor"},
	{Galatians, "갈라디아서", "갈", "Gal"},
	{Ephesians, "에베소서", "엡", "Eph"},
	{Philippians, "빌립보서", "빌", "Phil"},
	{Colossians, "골로새서", "골", "Col"},
	{IThessalonians, "데살로니가전서", "살전", "1Thess"},
	{IIThessalonians, "데살로니가후서", "살후", "2Thess"},
	{ITimothy, "디모데전서", "딤전", "1Tim"},
	{IITimothy, "디모데후서", "딤후", "2Tim"},
	{Titus, "디도서", "딛", "Titus"},
	{Philemon, "빌레몬서", "몬", "Phlm"},
	{Hebrews, "히브리서", "히", "Heb"},
	{James, "야고보서", "약", "Jas"},
	{IPeter, "베드로전서", "벧전", "1Pet"},
	{IIPeter, "베드로후서", "벧후", "2Pet"},
	{IJohn, "요한일서", "요일", "1John"},
	{IIJohn, "요한이서", "요이", "2John"},
	{IIIJohn, "요한삼서", "요삼", "3John"},
	{Jude, "유다서", "유", "Jude"},
	{Revelation, "요한계시록", "계", "Rev"},
}

// validKeys is the set of valid book keys.
var validKeys = func() map[BookKey]bool {
	m := make(map[BookKey]bool, len(koreanTable))
	for _, e := range koreanTable {
		m[e.Key] = true
	}
	return m
}()

// Valid returns true if k is one of the 66 canonical keys.
func (k BookKey) Valid() bool {
	return validKeys[k]
}

// String returns the key as written in stored data and JSON output.
func (k BookKey) String() string {
	return string(k)
}
