package classify

// foodKeywords marks a product as food when any keyword appears in its
// name or slug and no exclusion keyword does.
var foodKeywords = []string{
	// Grains & Staples
	"atta", "flour", "rice", "wheat", "dal", "pulse", "lentil", "chana", "moong",
	"toor", "urad", "masoor", "rajma", "chole", "besan", "sooji", "maida", "poha",
	"oats", "muesli", "cereal", "cornflakes", "millet", "ragi", "jowar", "bajra",

	// Oils & Ghee
	"oil", "ghee", "butter", "margarine", "vanaspati",

	// Dairy
	"milk", "curd", "yogurt", "yoghurt", "paneer", "cheese", "cream", "lassi",
	"buttermilk", "chaach", "khoa", "mawa", "shrikhand",

	// Bread & Bakery
	"bread", "pav", "bun", "cake", "pastry", "cookie", "biscuit", "rusk", "khari",
	"toast", "croissant", "muffin", "donut", "brownie",

	// Fruits & Vegetables
	"fruit", "vegetable", "sabji", "sabzi", "apple", "banana", "orange", "mango",
	"grape", "pomegranate", "papaya", "guava", "watermelon", "pineapple", "kiwi",
	"tomato", "potato", "onion", "carrot", "cabbage", "cauliflower", "spinach",
	"palak", "methi", "bhindi", "brinjal", "capsicum", "cucumber", "beans",
	"peas", "corn", "mushroom", "ginger", "garlic", "lemon", "coconut",

	// Meat, Fish & Eggs
	"chicken", "mutton", "lamb", "fish", "prawns", "shrimp", "egg", "meat",
	"sausage", "salami", "bacon", "ham", "kebab", "tikka", "seekh",

	// Spices & Masala
	"masala", "spice", "turmeric", "haldi", "chilli", "mirch", "pepper",
	"cumin", "jeera", "coriander", "dhania", "cardamom", "elaichi", "clove",
	"cinnamon", "dalchini", "garam masala", "biryani masala", "curry",

	// Dry Fruits & Nuts
	"almond", "badam", "cashew", "kaju", "walnut", "akhrot", "pistachio", "pista",
	"raisin", "kishmish", "dates", "khajoor", "fig", "anjeer", "peanut", "groundnut",

	// Snacks
	"chips", "namkeen", "bhujia", "mixture", "chakli", "murukku", "mathri",
	"papad", "fryums", "kurkure", "nachos", "popcorn", "makhana",

	// Sweets & Chocolates
	"chocolate", "candy", "toffee", "mithai", "sweet", "ladoo", "barfi", "halwa",
	"jalebi", "gulab jamun", "rasgulla", "sandesh", "peda",

	// Beverages
	"tea", "chai", "coffee", "juice", "drink", "soda", "cola", "lemonade",
	"squash", "sharbat", "coconut water", "energy drink", "health drink",

	// Instant & Packaged Food
	"noodles", "pasta", "maggi", "macaroni", "soup", "sauce", "ketchup",
	"mayonnaise", "pickle", "achar", "chutney", "jam", "honey", "spread",
	"ready to eat", "ready to cook", "instant", "frozen", "paratha", "roti",
	"samosa", "spring roll", "momos", "pizza", "burger",

	// Condiments
	"salt", "sugar", "jaggery", "gur", "vinegar", "soy sauce", "mustard",

	// Baby Food
	"baby food", "cerelac", "formula",

	// Health Foods
	"protein", "whey", "supplement", "nutrition", "diet", "organic", "gluten free",

	// Ice Cream & Frozen Desserts
	"ice cream", "kulfi", "frozen dessert", "gelato", "sorbet",
}

// excludeKeywords forces non-food regardless of any inclusion match.
// Exclusion always wins.
var excludeKeywords = []string{
	"shirt", "pant", "jeans", "dress", "saree", "kurti", "top", "bottom",
	"shoe", "sandal", "slipper", "footwear", "sneaker",
	"phone", "mobile", "laptop", "tablet", "charger", "cable", "earphone",
	"headphone", "speaker", "camera", "watch", "smartwatch",
	"poster", "frame", "decor", "curtain", "bedsheet", "pillow", "mattress",
	"toy", "game", "puzzle", "doll", "car", "bike",
	"cosmetic", "makeup", "lipstick", "foundation", "mascara", "eyeliner",
	"shampoo", "conditioner", "soap", "body wash", "face wash", "cream",
	"lotion", "serum", "sunscreen", "deodorant", "perfume", "fragrance",
	"diaper", "wipes", "sanitary", "pad", "tampon",
	"detergent", "cleaner", "dishwash", "mop", "broom", "bucket",
	"medicine", "capsule", "syrup", "ointment", "bandage",
	"legging", "shorts", "trackpants", "hoodie", "sweatshirt", "jacket",
	"t-shirt", "tshirt", "polo", "innerwear", "underwear", "bra", "brief",
	"jewellery", "jewelry", "necklace", "earring", "bracelet", "ring",
	"bag", "backpack", "handbag", "wallet", "purse", "luggage",
	"book", "notebook", "pen", "pencil", "stationery", "office",
	"iphone", "samsung", "case", "cover", "protector", "tempered",
}
