package prompt

var femaleSynonyms = []string{"female", "woman", "girl", "she", "her"}
var maleSynonyms = []string{"male", "man", "boy", "he", "him"}

var ageGroups = []synonymGroup{
	{value: "child", synonyms: []string{"child", "kid", "young boy", "young girl"}},
	{value: "young", synonyms: []string{"young", "youthful", "teen", "twenties"}},
	{value: "senior", synonyms: []string{"senior", "elderly", "old", "aged"}},
	{value: "adult", synonyms: []string{"adult", "mature", "grown"}},
}

var accentGroups = []synonymGroup{
	{value: "british", synonyms: []string{"british", "english accent", "uk accent", "london"}},
	{value: "american", synonyms: []string{"american", "us accent", "general american"}},
	{value: "australian", synonyms: []string{"australian", "aussie"}},
	{value: "irish", synonyms: []string{"irish"}},
	{value: "scottish", synonyms: []string{"scottish", "scots"}},
	{value: "southern_us", synonyms: []string{"southern drawl", "southern accent"}},
	{value: "french", synonyms: []string{"french accent"}},
	{value: "german", synonyms: []string{"german accent"}},
}

var timbreGroups = []synonymGroup{
	{value: "deep", synonyms: []string{"deep", "bass", "low pitch", "baritone"}},
	{value: "high", synonyms: []string{"high pitch", "high-pitched", "soprano", "squeaky"}},
	{value: "medium", synonyms: []string{"medium pitch", "mid-range", "moderate pitch"}},
}

var paceGroups = []synonymGroup{
	{value: "slow", synonyms: []string{"slow", "unhurried", "leisurely"}},
	{value: "fast", synonyms: []string{"fast", "quick", "rapid", "brisk"}},
	{value: "normal", synonyms: []string{"normal pace", "moderate pace", "even pace"}},
}

var personalityGroups = []synonymGroup{
	{value: "cheerful", synonyms: []string{"cheerful", "upbeat", "chipper"}},
	{value: "calm", synonyms: []string{"calm", "soothing", "serene", "relaxed"}},
	{value: "energetic", synonyms: []string{"energetic", "lively", "peppy"}},
	{value: "wise", synonyms: []string{"wise", "sage", "knowing"}},
	{value: "friendly", synonyms: []string{"friendly", "warm", "approachable"}},
	{value: "professional", synonyms: []string{"professional", "businesslike", "formal"}},
	{value: "dramatic", synonyms: []string{"dramatic", "theatrical", "grandiose"}},
	{value: "mysterious", synonyms: []string{"mysterious", "enigmatic", "cryptic"}},
	{value: "confident", synonyms: []string{"confident", "assured", "self-assured"}},
	{value: "gentle", synonyms: []string{"gentle", "tender", "soft-spoken"}},
}
