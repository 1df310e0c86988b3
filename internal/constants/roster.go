package constants

// DefaultRoster is the official team list. Order is significant for the admin bypass match.
var DefaultRoster = []string{
	"Alessandra Moreira Borges",
	"Alessandro Borges Ferreira",
	"Alex da Silva Cunha",
	"Alexandre Tavares da Cunha",
	"Aline Venturelli Ferreira Antonio",
	"Ana Carolina Gomes Torres",
	"André Del Negro Vasconcelos Freitas",
	"André Luiz da Cunha Nascimento Dias de Sousa",
	"Antonio Claudio de Queiroz Dias",
	"Bruno Gomes de Lima",
	"Caíque Fernandes Flaeschen",
	"Camila Rodrigues Bezerra da Silva",
	"Cézar Souza Barbosa",
	"Charles de Moura Ferreira",
	"Danilo Mendonça Marçal",
	"Dhara Vieira Alcântara",
	"Diogo Sobral Glória",
	"Fábio Eduardo",
	"Fernando Dias de Moura",
	"Gabriel Vicente Soares",
	"Gilberto Marques da Silva",
	"Gilmar da Silva Mororó",
	"Hugo Joseir Souza e Silva",
	"Isabela Prado Bonfim",
	"Izabel Poline do Nascimento Camêlo",
	"Jair Dias Francisco",
	"Jefferson de Faria Lima",
	"Jorge Hamilton Heine e Silva",
	"Joviano Fernandes Borges",
	"Klesley Garcia Soares",
	"Lanuza Oliveira Vital",
	"Larissa Rodrigues Coqueiro",
	"Letícia Benedito Lima",
	"Levi Francisco Parente",
	"Luana Rocha Correto Vieira",
	"Luciano Benevides de Sousa",
	"Luciene Pereira de Queiroz",
	"Maiara Goveia de Sousa",
	"Marcel Garcia Cardoso",
	"Maria Aparecida Dantas",
	"Mário Pedro Baptista dos Santos",
	"Natalia Britto Rocha",
	"Paula Cristina de Deus Dini",
	"Pedro Dias Boa Sorte",
	"Pedro Eliton Peres",
	"Pedro Henrique Araujo Dias",
	"Rafael de Morais Garay",
	"Rafael Vinicius Vilela",
	"Renan Victor Cavalcante da Mata",
	"Romualdo Lima de Medeiros",
	"Rômullo Sanches Lima Fontenele",
	"Ronaldo Lima de Medeiros",
	"Rosimar Antonio Ricardo",
	"Sílvia de Araújo Jácomo",
	"Taiana de Andrade Pereira",
	"Thiago Sampaio Silva",
	"Tula Andrelina Lopes da Costa",
	"Uendel Dourado Gomes",
	"Vanessa Araújo Dias",
	"Wesley Sol da Silva",
}
