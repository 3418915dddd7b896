package extract

// File extension tables, lowercased, without the leading dot.
var fileCategories = map[string][]string{
	CategoryImage:    {"jpg", "jpeg", "png", "gif", "webp", "svg", "heic"},
	CategoryVideo:    {"mp4", "avi", "mov", "mkv", "webm"},
	CategoryAudio:    {"mp3", "wav", "flac", "m4a", "ogg"},
	CategoryDocument: {"pdf", "doc", "docx", "txt", "rtf", "xls", "xlsx", "ppt", "pptx"},
	CategoryArchive:  {"zip", "rar", "7z", "tar", "gz"},
}

const (
	CategoryImage    = "image"
	CategoryVideo    = "video"
	CategoryAudio    = "audio"
	CategoryDocument = "document"
	CategoryArchive  = "archive"
)

// Lexical flag keyword tables. Matching is plain substring search over the
// lowercased title+description, which keeps both Russian stems and English
// words workable without stemming.
const (
	FlagDesign   = "design"
	FlagCode     = "code"
	FlagVideo    = "video"
	FlagImage    = "image"
	FlagAudio    = "audio"
	FlagIdea     = "idea"
	FlagBusiness = "business"
	FlagLearning = "learning"
	FlagAI       = "ai"
	FlagNews     = "news"
	FlagTools    = "tools"
)

// lexicalFlagOrder fixes iteration order; map iteration must never decide
// which flags a record gets.
var lexicalFlagOrder = []string{
	FlagDesign, FlagCode, FlagVideo, FlagImage, FlagAudio,
	FlagIdea, FlagBusiness, FlagLearning, FlagAI, FlagNews, FlagTools,
}

var lexicalKeywords = map[string][]string{
	FlagDesign:   {"дизайн", "ui", "ux", "figma", "design", "dribbble", "behance"},
	FlagCode:     {"код", "программ", "python", "javascript", "github", "api"},
	FlagVideo:    {"видео", "youtube", "смотреть", "фильм"},
	FlagImage:    {"фото", "изображен", "картинк", "photo", "image"},
	FlagAudio:    {"аудио", "музык", "звук", "голос", "mp3"},
	FlagIdea:     {"идея", "мысль", "концепт", "план"},
	FlagBusiness: {"бизнес", "деньги", "продаж", "маркетинг", "startup"},
	FlagLearning: {"обучен", "урок", "курс", "learn", "tutorial"},
	FlagAI:       {"chatgpt", "midjourney", "openai", "нейросеть", "prompt"},
	FlagNews:     {"news", "новости", "announcement", "release"},
	FlagTools:    {"инструмент", "сервис", "tool", "software", "platform"},
}
