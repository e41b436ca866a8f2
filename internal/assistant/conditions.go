package assistant

// Condition is what the assistant knows about one symptom.
type Condition struct {
	Symptom string `json:"symptom"`
	Cause   string `json:"cause"`
	Doctor  string `json:"doctor"`
	Tip     string `json:"tip"`
}

// Conditions is the fixed symptom table, in match priority order for equal-length keys.
var Conditions = []Condition{
	{Symptom: "headache", Cause: "Mild migraine, dehydration, or stress.", Doctor: "Neurologist", Tip: "Drink water, rest in a dark room, and avoid screen time."},
	{Symptom: "fever", Cause: "Common viral infection, flu, or mild bacterial infection.", Doctor: "General Physician", Tip: "Stay hydrated, monitor temperature, and rest."},
	{Symptom: "rash", Cause: "Skin allergy, dermatitis, or insect bite.", Doctor: "Dermatologist", Tip: "Apply soothing lotion and avoid scratching."},
	{Symptom: "stomach", Cause: "Indigestion, gastritis, or mild food poisoning.", Doctor: "Gastroenterologist", Tip: "Eat bland food, avoid spicy meals, and drink plenty of fluids."},
	{Symptom: "cough", Cause: "Common cold, flu, or throat infection.", Doctor: "General Physician", Tip: "Drink warm fluids and consider steam inhalation."},
	{Symptom: "sore_throat", Cause: "Viral infection, strep throat, or allergies.", Doctor: "ENT Specialist", Tip: "Gargle with warm salt water and rest your voice."},
	{Symptom: "chest_pain", Cause: "Possible heart issue, GERD, or anxiety-related pain.", Doctor: "Cardiologist", Tip: "Seek immediate medical help if severe or radiating."},
	{Symptom: "dizziness", Cause: "Low blood pressure, dehydration, or ear issues.", Doctor: "Neurologist", Tip: "Sit down immediately and drink fluids."},
	{Symptom: "fatigue", Cause: "Anemia, thyroid disorder, or lack of sleep.", Doctor: "Endocrinologist", Tip: "Get adequate rest and eat iron-rich foods."},
	{Symptom: "back_pain", Cause: "Poor posture, muscle strain, or spinal issues.", Doctor: "Orthopedic Specialist", Tip: "Maintain good posture and use a firm mattress."},
	{Symptom: "knee_pain", Cause: "Arthritis, ligament injury, or overuse.", Doctor: "Orthopedic Specialist", Tip: "Apply ice and avoid putting weight on the knee."},
	{Symptom: "toothache", Cause: "Cavity, gum infection, or tooth decay.", Doctor: "Dentist", Tip: "Rinse with warm salt water and avoid sugary foods."},
	{Symptom: "eye_redness", Cause: "Conjunctivitis, allergies, or strain.", Doctor: "Ophthalmologist", Tip: "Avoid rubbing eyes and use prescribed eye drops."},
	{Symptom: "ear_pain", Cause: "Ear infection or wax buildup.", Doctor: "ENT Specialist", Tip: "Avoid inserting objects and use warm compress."},
	{Symptom: "high_bp", Cause: "Hypertension due to stress or lifestyle factors.", Doctor: "Cardiologist", Tip: "Limit salt intake and monitor BP regularly."},
	{Symptom: "low_bp", Cause: "Dehydration or endocrine disorder.", Doctor: "General Physician", Tip: "Drink water and rest with legs elevated."},
	{Symptom: "chest_tightness", Cause: "Asthma, heart issue, or anxiety.", Doctor: "Pulmonologist", Tip: "Practice deep breathing and seek urgent care if severe."},
	{Symptom: "diarrhea", Cause: "Food poisoning or viral gastroenteritis.", Doctor: "Gastroenterologist", Tip: "Drink ORS and avoid oily/spicy foods."},
	{Symptom: "constipation", Cause: "Low fiber diet or dehydration.", Doctor: "Gastroenterologist", Tip: "Increase fiber intake and drink plenty of water."},
	{Symptom: "anxiety", Cause: "Stress or generalized anxiety disorder.", Doctor: "Psychiatrist", Tip: "Practice deep breathing and meditation."},
	{Symptom: "depression", Cause: "Mental health condition, prolonged stress.", Doctor: "Psychiatrist", Tip: "Seek therapy, talk to loved ones, and stay active."},
	{Symptom: "shortness_of_breath", Cause: "Asthma, lung infection, or heart condition.", Doctor: "Pulmonologist", Tip: "Sit upright and avoid physical exertion."},
	{Symptom: "swelling_legs", Cause: "Heart, kidney, or venous issue.", Doctor: "Cardiologist", Tip: "Elevate legs and reduce salt intake."},
	{Symptom: "urinary_burning", Cause: "UTI or dehydration.", Doctor: "Urologist", Tip: "Drink plenty of water and cranberry juice."},
	{Symptom: "hair_loss", Cause: "Hormonal imbalance or nutritional deficiency.", Doctor: "Dermatologist", Tip: "Eat protein-rich foods and avoid harsh chemicals."},
	{Symptom: "acne", Cause: "Hormonal imbalance or clogged pores.", Doctor: "Dermatologist", Tip: "Wash face twice daily and avoid oily foods."},
	{Symptom: "insomnia", Cause: "Stress, anxiety, or poor sleep hygiene.", Doctor: "Psychiatrist", Tip: "Avoid screens before bed and maintain a routine."},
	{Symptom: "vomiting", Cause: "Food poisoning or stomach infection.", Doctor: "Gastroenterologist", Tip: "Drink ORS and avoid solid foods initially."},
	{Symptom: "joint_pain", Cause: "Arthritis or injury.", Doctor: "Orthopedic Specialist", Tip: "Apply heat or ice and rest the joint."},
	{Symptom: "weight_gain", Cause: "Thyroid disorder or lifestyle habits.", Doctor: "Endocrinologist", Tip: "Exercise regularly and reduce processed foods."},
	{Symptom: "weight_loss", Cause: "Hyperthyroidism or diabetes.", Doctor: "Endocrinologist", Tip: "Eat nutrient-dense foods and consult for blood tests."},
	{Symptom: "palpitations", Cause: "Anxiety or heart rhythm problem.", Doctor: "Cardiologist", Tip: "Practice relaxation and avoid caffeine."},
	{Symptom: "blurred_vision", Cause: "Eye strain or diabetes.", Doctor: "Ophthalmologist", Tip: "Rest eyes and check blood sugar if diabetic."},
}
